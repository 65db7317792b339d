package runtimepath

import (
	"path/filepath"
	"testing"
)

func TestDirHonorsXDGRuntimeDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != tmp {
		t.Fatalf("expected %q, got %q", tmp, dir)
	}
}

func TestSocketPathUnderRuntimeDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", tmp)

	path, err := SocketPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(tmp, "pokertile.sock") {
		t.Fatalf("unexpected socket path %q", path)
	}
}
