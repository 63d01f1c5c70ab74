// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package config implements §6's configuration object: a composable
// resolver of schema source locations, grounded on
// compile.go's YangLocator/YangDirs/YangFiles/YangLocations chain.
// Where the teacher resolves YANG module files from a directory set,
// Resolver resolves XSD source locations (directory scans, explicit
// file lists, explicit URLs) and Config.Load turns each resolved
// location into bytes for the caller's own XSD parser — config never
// parses a schema itself, since collab.SchemaSource is produced
// outside this module's scope.
package config

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Resolver resolves a set of schema source locations, the same shape
// as compile.go's YangLocator.
type Resolver func() ([]string, error)

// FromDirs scans each directory for files whose extension matches one
// of ext (".xsd" for a plain XSD tree), mirroring YangDirs' use of
// YangModulesFromDir. A directory that cannot be read is skipped
// rather than failing the whole resolution, exactly as YangDirs does.
func FromDirs(ext []string, dirs ...string) Resolver {
	return func() ([]string, error) {
		var out []string
		for _, d := range dirs {
			if d == "" {
				continue
			}
			entries, err := ioutil.ReadDir(d)
			if err != nil {
				logrus.WithField("dir", d).WithError(err).Debug("config: skipping unreadable source directory")
				continue
			}
			for _, e := range entries {
				if e.IsDir() || !hasAnySuffix(e.Name(), ext) {
					continue
				}
				out = append(out, filepath.Join(d, e.Name()))
			}
		}
		return out, nil
	}
}

func hasAnySuffix(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FromFiles resolves exactly the given file paths, mirroring
// YangFiles. Empty entries are dropped.
func FromFiles(files ...string) Resolver {
	return func() ([]string, error) {
		var out []string
		for _, f := range files {
			if f == "" {
				continue
			}
			out = append(out, f)
		}
		return out, nil
	}
}

// FromURLs resolves a fixed list of schema_urls locations. Resolution
// is purely textual here; fetching their content happens in Load,
// which is the only place an *http.Client is consulted.
func FromURLs(urls ...string) Resolver {
	return func() ([]string, error) {
		var out []string
		for _, u := range urls {
			if u != "" {
				out = append(out, u)
			}
		}
		return out, nil
	}
}

// Chain concatenates locations, mirroring YangLocations: any one
// sub-resolver's error aborts the whole chain.
func Chain(resolvers ...Resolver) Resolver {
	return func() ([]string, error) {
		var out []string
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			locs, err := r()
			if err != nil {
				return nil, err
			}
			out = append(out, locs...)
		}
		return out, nil
	}
}

// Source is one resolved schema location together with its bytes.
type Source struct {
	Location string
	Content  []byte
}

// Config is the §6 configuration object binding a base URI, a
// composable Sources resolver, and an optional HTTP client used only
// to fetch locations Load finds to be URLs.
type Config struct {
	BaseURI    string
	Sources    Resolver
	HTTPClient *http.Client
}

// Load resolves Sources and reads every location's bytes: a local
// file via os.Open, or a remote fetch via HTTPClient for anything
// that looks like a URL. A nil HTTPClient with a URL location is a
// caller configuration error, reported immediately rather than
// silently falling back to a zero-value client.
func (c *Config) Load(ctx context.Context) ([]Source, error) {
	if c.Sources == nil {
		return nil, nil
	}
	locations, err := c.Sources()
	if err != nil {
		return nil, err
	}
	out := make([]Source, 0, len(locations))
	for _, loc := range locations {
		content, err := c.load(ctx, loc)
		if err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", loc, err)
		}
		out = append(out, Source{Location: loc, Content: content})
	}
	return out, nil
}

func (c *Config) load(ctx context.Context, loc string) ([]byte, error) {
	if isURL(loc) {
		if c.HTTPClient == nil {
			return nil, fmt.Errorf("no HTTPClient configured to fetch %s", loc)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return ioutil.ReadAll(resp.Body)
	}
	f, err := os.Open(loc)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ioutil.ReadAll(f)
}

func isURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}
