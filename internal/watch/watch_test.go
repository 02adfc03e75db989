package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(p, []byte("style: {version: 8}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var calls atomic.Int32
	applied := make(chan string, 4)
	w := New(p, func(_ context.Context, path string) error {
		calls.Add(1)
		applied <- path
		return nil
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(p, []byte("style: {version: 8, name: v2}\n"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}

	select {
	case got := <-applied:
		if got != p {
			t.Fatalf("applied %q, want %q", got, p)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("change not applied")
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("apply called %d times, want 1", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "map.yaml"), func(context.Context, string) error { return nil })
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
