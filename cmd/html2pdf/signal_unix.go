//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop conversions and the server. SIGTERM is what container
// runtimes send.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
