// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBundleBuildsGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	doc := `{
		"local": "config",
		"attributes": [{"local": "id", "base": "int"}],
		"children": [
			{"minOccurs": 1, "maxOccurs": 1, "node": {"local": "name", "base": "string"}}
		]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	graph, err := loadBundle(path)
	if err != nil {
		t.Fatalf("loadBundle: %v", err)
	}
	if graph.Start.ElementQName.Local != "config" {
		t.Fatalf("expected root element config, got %s", graph.Start.ElementQName.Local)
	}
	if len(graph.Start.Attributes) != 1 || graph.Start.Attributes[0].Name.Local != "id" {
		t.Fatalf("expected one id attribute, got %+v", graph.Start.Attributes)
	}
	if len(graph.Start.Next) != 1 || graph.Start.Next[0].To.ElementQName.Local != "name" {
		t.Fatalf("expected one name child edge, got %+v", graph.Start.Next)
	}
}

func TestLoadBundleRejectsUnknownBaseType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(path, []byte(`{"local": "config", "base": "not-a-type"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadBundle(path); err == nil {
		t.Fatalf("expected an error for an unknown base type")
	}
}
