package indexer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalk_ReturnsFilesRespectingFilter(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "readme.md"), "hello")
	mustWriteFile(t, filepath.Join(dir, "main.go"), "package main")
	mustWriteFile(t, filepath.Join(dir, ".git", "config"), "[core]")

	files, err := Walk(dir, NewFilter(DefaultFilterConfig()), true)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
}

func TestWalk_PrunesIgnoredDirectoriesEntirely(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "node_modules", "pkg", "index.js"), "x")
	mustWriteFile(t, filepath.Join(dir, "src", "app.go"), "package app")

	files, err := Walk(dir, NewFilter(DefaultFilterConfig()), true)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "src/app.go" {
		t.Fatalf("expected only src/app.go, got %+v", files)
	}
}

func TestWalk_NonRecursiveIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "top.md"), "top")
	mustWriteFile(t, filepath.Join(dir, "nested", "deep.md"), "deep")

	files, err := Walk(dir, NewFilter(DefaultFilterConfig()), false)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "top.md" {
		t.Fatalf("expected only top.md, got %+v", files)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
