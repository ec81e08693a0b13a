package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"estale", syscall.ESTALE, true},
		{"ebusy", syscall.EBUSY, true},
		{"enoent", syscall.ENOENT, false},
		{"wrapped estale", &os.PathError{Op: "open", Path: "/x", Err: syscall.ESTALE}, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransientError(tt.err); got != tt.want {
				t.Errorf("isTransientError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := Stat(path, fastConfig())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size() = %d, want 4", info.Size())
	}
}

func TestStatMissingFileNoRetry(t *testing.T) {
	start := time.Now()
	_, err := Stat(filepath.Join(t.TempDir(), "missing"), fastConfig())
	if !os.IsNotExist(err) {
		t.Fatalf("Stat() error = %v, want not-exist", err)
	}
	// ENOENT is permanent; no backoff sleeps should have happened.
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Stat took %v, expected an immediate failure", elapsed)
	}
}

func TestOpenExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path, fastConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	f.Close()
}

func TestWithRetryTransientThenSuccess(t *testing.T) {
	calls := 0
	err := withRetry("open", "/fake", fastConfig(), func() error {
		calls++
		if calls < 3 {
			return &os.PathError{Op: "open", Path: "/fake", Err: syscall.ESTALE}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	calls := 0
	err := withRetry("stat", "/fake", fastConfig(), func() error {
		calls++
		return &os.PathError{Op: "stat", Path: "/fake", Err: syscall.ESTALE}
	})
	if err == nil {
		t.Fatal("withRetry() error = nil, want transient error")
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (initial + 3 retries)", calls)
	}
}
