package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "db.sqlite")
	if err := os.WriteFile(file, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "vectors")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{"index.bin": "ab", "meta.json": "c"} {
		if err := os.WriteFile(filepath.Join(sub, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		paths []string
		want  int64
	}{
		{"single file", []string{file}, 5},
		{"directory recursive", []string{sub}, 3},
		{"file plus directory", []string{file, sub}, 8},
		{"missing path skipped", []string{file, filepath.Join(dir, "gone"), sub}, 8},
		{"empty path skipped", []string{"", file}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskUsageBytes(tt.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DiskUsageBytes(%v) = %d, want %d", tt.paths, got, tt.want)
			}
		})
	}
}
