//go:build windows

package main

import "os"

// shutdownSignals stop conversions and the server.
var shutdownSignals = []os.Signal{os.Interrupt}
