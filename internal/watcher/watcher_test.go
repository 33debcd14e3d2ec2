package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	indexed []string
	removed []string
}

func (r *recorder) onIndex(path string) {
	r.mu.Lock()
	r.indexed = append(r.indexed, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) indexedPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.indexed...)
}

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := New(nil, []string{".txt"}, true, rec.onIndex, rec.onRemove)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 || filepath.Clean(dirs[0]) != filepath.Clean(dir) {
		t.Errorf("Directories() = %v", dirs)
	}

	if err := w.RemoveDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 0 {
		t.Errorf("after remove: %v", w.Directories())
	}
}

func TestWatcher_DebounceAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := New([]string{dir}, []string{".txt"}, true, rec.onIndex, nil, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	fPath := filepath.Join(sub, "f.txt")
	if err := os.WriteFile(fPath, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if len(rec.indexedPaths()) < 1 {
		t.Errorf("expected at least one index callback, got %d", len(rec.indexedPaths()))
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.txt", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestWatcher_SyncExistingFiles_indexesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.xyz"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := New([]string{dir}, []string{".txt"}, true, rec.onIndex, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	w.SyncExistingFiles()

	indexed := rec.indexedPaths()
	if len(indexed) != 1 || !strings.HasSuffix(indexed[0], "a.txt") {
		t.Errorf("expected one indexed file a.txt, got %v", indexed)
	}
}

func TestWatcher_Start_createsMissingRootDirectory(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "watch", "me")

	w := New([]string{root}, []string{".txt"}, true, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root directory should exist after Start: %v", err)
	}
}

func TestWatcher_NewDirectory_indexesContainedFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := New([]string{dir}, []string{".txt", ".md"}, true, rec.onIndex, nil, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	newFolder := filepath.Join(dir, "new-folder")
	if err := os.MkdirAll(newFolder, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(newFolder, "doc1.txt"), []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(newFolder, "doc2.md"), []byte("world"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(newFolder, "ignore.xyz"), []byte("skip"), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)

	indexed := rec.indexedPaths()
	txtFound, mdFound := false, false
	for _, p := range indexed {
		if strings.HasSuffix(p, "doc1.txt") {
			txtFound = true
		}
		if strings.HasSuffix(p, "doc2.md") {
			mdFound = true
		}
		if strings.HasSuffix(p, "ignore.xyz") {
			t.Errorf("ignore.xyz should not be indexed")
		}
	}
	if !txtFound || !mdFound {
		t.Errorf("expected doc1.txt and doc2.md to be indexed, got %v", indexed)
	}
}

func TestWatcher_NewDirectory_recursiveSubfolders(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := New([]string{dir}, []string{".txt"}, true, rec.onIndex, nil, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	nested := filepath.Join(dir, "level1", "level2")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "deep.txt"), []byte("deep content"), 0600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)

	found := false
	for _, p := range rec.indexedPaths() {
		if strings.HasSuffix(p, "deep.txt") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected deep.txt to be indexed, got %v", rec.indexedPaths())
	}
}
