package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"worktrack/internal/modules/plugin/adapter/out"
)

func writeManifests(t *testing.T, dir, payload string) {
	t.Helper()
	pluginDir := filepath.Join(dir, "plugins")
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugins.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write manifests: %v", err)
	}
}

func TestFileManifestStoreLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifests(t, dir, `[
  {
    "name": "analyzer",
    "version": "1.0.0",
    "binary": "plugins/analyzer",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["analyze"]
  }
]`)
	store := out.NewFileManifestStore(dir)

	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	want := filepath.Clean(filepath.Join(dir, "plugins", "analyzer"))
	if manifests[0].Binary != want {
		t.Fatalf("relative binary not resolved: %s", manifests[0].Binary)
	}
}

func TestFileManifestStoreMissingFile(t *testing.T) {
	t.Parallel()
	store := out.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty slice, got %+v", manifests)
	}
}

func TestFileManifestStoreRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifests(t, dir, `[{"name":"x","surprise":true}]`)
	store := out.NewFileManifestStore(dir)

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("unknown fields must fail")
	}
}
