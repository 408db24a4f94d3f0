package main

import "runtime"

// Worker sizing constants.
const (
	// minWorkers ensures at least one conversion runs.
	minWorkers = 1

	// maxWorkers caps concurrent browsers to limit memory (~200MB each).
	maxWorkers = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// resolveWorkers determines how many files convert at once.
// Priority: explicit value > GOMAXPROCS-based calculation.
func resolveWorkers(explicit int) int {
	if explicit > 0 {
		return explicit
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < minWorkers {
		return minWorkers
	}
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}
