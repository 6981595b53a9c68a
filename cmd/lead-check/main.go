package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/leadboard/internal/leadcheck"
	"github.com/okian/leadboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultTopN     = 5
	defaultTimeout  = 10 * time.Second
	defaultRunLimit = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		notes      = flag.Int("notes", 0, "Number of notes to submit, each posted twice")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent submitters")
		topN       = flag.Int("top", defaultTopN, "Size of the hot-lead board to verify")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		reportFile = flag.String("report", "", "JSON report destination")
		logFile    = flag.String("log", "", "Log file (default: lead_check_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log passing checks too")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		leadcheck.ShowHelp()
		return
	}

	if err := leadcheck.SetupLogging(*logFile); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()

	report, err := leadcheck.Run(ctx, &leadcheck.Config{
		BaseURL:    *baseURL,
		Notes:      *notes,
		Workers:    *workers,
		TopN:       *topN,
		Timeout:    *timeout,
		ReportFile: *reportFile,
		Verbose:    *verbose,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
	if failed := report.Failed(); len(failed) > 0 {
		_, _ = os.Stderr.WriteString(strconv.Itoa(len(failed)) + " check(s) failed\n")
		cancel()
		os.Exit(1)
	}
}
