package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mdrender/internal/logging"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment lookup and the logger.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Logger  *log.Logger // Replaced per command by newLogger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Logger:  logging.Default(),
	}
}
