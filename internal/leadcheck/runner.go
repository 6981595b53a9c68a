package leadcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/pkg/logger"
)

// Run executes the complete check run. It returns an error only when the
// service cannot be reached or read; failed checks are reported in the
// returned Report.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	report := &Report{
		BaseURL:   cfg.BaseURL,
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting lead check",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("notes", cfg.Notes),
		logger.Int("workers", cfg.Workers),
		logger.Int("topN", cfg.TopN),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("verbose", cfg.Verbose))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	var leads []model.Lead
	if err := client.getJSON(ctx, "/leads", &leads); err != nil {
		return nil, fmt.Errorf("lead retrieval failed: %w", err)
	}
	report.Leads = len(leads)

	report.Checks = verifyResults(ctx, client, leads, cfg)

	if cfg.Notes > 0 {
		jobs, err := generateNotes(ctx, cfg.Notes, leadIDs(leads))
		if err != nil {
			return nil, fmt.Errorf("note generation failed: %w", err)
		}
		stats, violations := submitNotes(ctx, client, cfg.Workers, jobs)
		report.Submit = stats

		res := CheckResult{Name: "idempotent_replay", Passed: violations == 0}
		if violations > 0 {
			res.Detail = fmt.Sprintf("%d replayed actions were not reported as duplicates", violations)
		}
		report.Checks = append(report.Checks, res)
	}

	for _, c := range report.Checks {
		switch {
		case !c.Passed:
			logger.Get().Warn(ctx, "check failed", logger.String("check", c.Name), logger.String("detail", c.Detail))
		case cfg.Verbose:
			logger.Get().Info(ctx, "check passed", logger.String("check", c.Name))
		}
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime).String()

	if cfg.ReportFile != "" {
		if err := saveReport(ctx, cfg.ReportFile, report); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	displayFinalStats(ctx, report)
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveReport writes the report as indented JSON.
func saveReport(ctx context.Context, filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), logFilePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Get().Info(ctx, "report saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, report *Report) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("leads", report.Leads),
		logger.Int("checks", len(report.Checks)),
		logger.Int("checksFailed", len(report.Failed())),
		logger.Int("notesSubmitted", report.Submit.Submitted),
		logger.Int("notesAccepted", report.Submit.Accepted),
		logger.Int("notesDuplicate", report.Submit.Duplicate),
		logger.Int("notesBacklogged", report.Submit.Backlogged),
		logger.String("duration", report.Duration))
}
