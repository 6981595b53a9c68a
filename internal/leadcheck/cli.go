package leadcheck

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/leadboard/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		logFile = "lead_check_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the lead check tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Leadboard Check Tool
====================

Runs consistency checks against a running leadboard service and optionally
replays note submissions to verify idempotent writes.

Usage:
  go run ./cmd/lead-check [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -notes int
        Number of notes to submit, each posted twice (default 0)
  -workers int
        Number of concurrent submitters (default CPU cores)
  -top int
        Size of the hot-lead board to verify (default 5)
  -timeout duration
        HTTP request timeout (default 10s)
  -report string
        JSON report destination (default: none)
  -log string
        Log file (default: lead_check_TIMESTAMP.log)
  -verbose
        Log passing checks too
  -help
        Show this help message

Examples:
  # Read-only checks
  go run ./cmd/lead-check

  # Also exercise the write path
  go run ./cmd/lead-check -notes 200 -workers 8 -report out/check.json
`)
}
