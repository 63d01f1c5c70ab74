// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFromDirsFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xsd", "b.xsd", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	locs, err := FromDirs([]string{".xsd"}, dir)()
	if err != nil {
		t.Fatalf("FromDirs: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("expected 2 .xsd locations, got %v", locs)
	}
}

func TestFromDirsSkipsUnreadableDir(t *testing.T) {
	locs, err := FromDirs([]string{".xsd"}, "/does/not/exist")()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(locs) != 0 {
		t.Fatalf("expected no locations, got %v", locs)
	}
}

func TestChainConcatenatesAndPropagatesError(t *testing.T) {
	locs, err := Chain(FromFiles("a.xsd"), FromFiles("b.xsd"))()
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(locs) != 2 || locs[0] != "a.xsd" || locs[1] != "b.xsd" {
		t.Fatalf("unexpected chained locations: %v", locs)
	}

	boom := Resolver(func() ([]string, error) { return nil, os.ErrPermission })
	if _, err := Chain(FromFiles("a.xsd"), boom)(); err == nil {
		t.Fatalf("expected Chain to propagate sub-resolver error")
	}
}

func TestLoadReadsLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "root.xsd")
	if err := os.WriteFile(path, []byte("<schema/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{Sources: FromFiles(path)}
	sources, err := cfg.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 || string(sources[0].Content) != "<schema/>" {
		t.Fatalf("unexpected sources: %+v", sources)
	}
}

func TestLoadFetchesURLWithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<schema/>"))
	}))
	defer srv.Close()

	cfg := &Config{Sources: FromURLs(srv.URL), HTTPClient: srv.Client()}
	sources, err := cfg.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 || string(sources[0].Content) != "<schema/>" {
		t.Fatalf("unexpected sources: %+v", sources)
	}
}

func TestLoadURLWithoutHTTPClientFails(t *testing.T) {
	cfg := &Config{Sources: FromURLs("http://example.invalid/schema.xsd")}
	if _, err := cfg.Load(context.Background()); err == nil {
		t.Fatalf("expected error when no HTTPClient is configured for a URL source")
	}
}
