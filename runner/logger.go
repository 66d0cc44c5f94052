package runner

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

var logger hclog.Logger

// Logger returns the process-wide logger shared by the action packages. It
// writes to stderr because stdout carries the result mapping for the host.
func Logger() hclog.Logger {
	if logger == nil {
		level := hclog.LevelFromString(os.Getenv("LOG_LEVEL"))
		if level == hclog.NoLevel {
			level = hclog.Info
		}

		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "azuread-group-remove",
			Level:  level,
			Output: os.Stderr,
		})
	}

	return logger
}
