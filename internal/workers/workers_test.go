package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	cpus := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"cpu bound", 1.0, 0, cpus},
		{"io bound", 2.0, 0, cpus * 2},
		{"limited", 2.0, 1, 1},
		{"never below one", 0.0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("CACHE_WORKERS", "3")

	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Count with CACHE_WORKERS=3 = %d, want 3", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count with CACHE_WORKERS=3 and limit 2 = %d, want 2", got)
	}
}

func TestCountBadOverrideIgnored(t *testing.T) {
	t.Setenv("CACHE_WORKERS", "zero")

	if got := Count(1.0, 0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("Count with invalid override = %d, want %d", got, runtime.GOMAXPROCS(0))
	}
}
