//go:build windows

package main

import "os"

// Only Ctrl+C is delivered to console programs.
var shutdownSignals = []os.Signal{os.Interrupt}
