package main

import (
	"runtime"
	"testing"
)

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name     string
		explicit int
		want     int
	}{
		{name: "explicit value wins", explicit: 4, want: 4},
		{name: "explicit 1 is sequential", explicit: 1, want: 1},
		{name: "explicit above cap is kept", explicit: 16, want: 16},
		{name: "zero uses auto calculation", explicit: 0, want: min(max(gomaxprocs/2, 1), 8)},
		{name: "negative uses auto calculation", explicit: -3, want: min(max(gomaxprocs/2, 1), 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveWorkers(tt.explicit); got != tt.want {
				t.Errorf("resolveWorkers(%d) = %d, want %d", tt.explicit, got, tt.want)
			}
		})
	}
}

func TestResolveWorkers_Bounds(t *testing.T) {
	t.Parallel()

	got := resolveWorkers(0)
	if got < minWorkers || got > maxWorkers {
		t.Errorf("resolveWorkers(0) = %d, want %d..%d", got, minWorkers, maxWorkers)
	}
}
