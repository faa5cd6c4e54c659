//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop a running batch.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
