// Package filesystem wraps file operations with retry logic for
// transient errors. Import drop folders frequently sit on network
// mounts, where a file that just finished copying can still return
// ESTALE or EBUSY for a short window.
package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"media-player/internal/logging"
	"media-player/internal/metrics"
)

// RetryConfig configures retry behavior for file operations.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns defaults tuned for network-mounted drop
// folders: a handful of quick retries, never more than half a second
// between attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isTransientError reports whether an error is worth retrying: a stale
// NFS handle or a file still held open by the process that wrote it.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE || errno == syscall.EBUSY
	}
	return false
}

// Stat performs os.Stat, retrying transient errors with exponential
// backoff.
func Stat(path string, config RetryConfig) (os.FileInfo, error) {
	var info os.FileInfo
	err := withRetry("stat", path, config, func() error {
		var statErr error
		info, statErr = os.Stat(path)
		return statErr
	})
	return info, err
}

// Open performs os.Open, retrying transient errors with exponential
// backoff.
func Open(path string, config RetryConfig) (*os.File, error) {
	var file *os.File
	err := withRetry("open", path, config, func() error {
		var openErr error
		file, openErr = os.Open(path)
		return openErr
	})
	return file, err
}

func withRetry(op, path string, config RetryConfig, fn func() error) error {
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("%s succeeded on retry %d for %s", op, attempt, path)
				metrics.FileRetryTotal.WithLabelValues(op, "success").Inc()
			}
			return nil
		}

		lastErr = err
		if !isTransientError(err) {
			return err
		}

		if attempt < config.MaxRetries {
			metrics.FileRetryTotal.WithLabelValues(op, "attempt").Inc()
			logging.Debug("%s transient error for %s, retrying in %v (attempt %d/%d): %v",
				op, path, backoff, attempt+1, config.MaxRetries, err)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("%s failed after %d retries for %s: %v", op, config.MaxRetries, path, lastErr)
	metrics.FileRetryTotal.WithLabelValues(op, "failure").Inc()
	return lastErr
}
