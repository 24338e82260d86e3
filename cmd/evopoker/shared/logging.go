// Package shared holds helpers common to all evopoker commands.
package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures the CLI logger with pretty console output.
func SetupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
