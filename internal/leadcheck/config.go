// Package leadcheck runs smoke and consistency checks against a running
// leadboard instance over its HTTP API.
package leadcheck

import "time"

// Config holds configuration for a check run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Notes      int           // Number of notes to submit; 0 skips the write checks
	Workers    int           // Number of concurrent submitters
	TopN       int           // Size of the hot-lead board to verify
	Timeout    time.Duration // HTTP request timeout
	ReportFile string        // JSON report destination; empty skips writing
	Verbose    bool          // Log every check
}

// CheckResult is the outcome of one consistency check.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// SubmitStats counts note submissions by outcome.
type SubmitStats struct {
	Generated  int `json:"generated"`
	Submitted  int `json:"submitted"`
	Accepted   int `json:"accepted"`
	Duplicate  int `json:"duplicate"`
	Rejected   int `json:"rejected"`
	Backlogged int `json:"backlogged"`
	Failed     int `json:"failed"`
}

// Report is the result of a run.
type Report struct {
	BaseURL   string        `json:"base_url"`
	Leads     int           `json:"leads"`
	Checks    []CheckResult `json:"checks"`
	Submit    SubmitStats   `json:"submit"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  string        `json:"duration"`
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// ackResponse mirrors the action acknowledgement body.
type ackResponse struct {
	Status    string `json:"status"`
	ActionID  string `json:"action_id"`
	Duplicate bool   `json:"duplicate"`
}

// note is the body of POST /leads/{id}/notes.
type note struct {
	ActionID string `json:"action_id"`
	Note     string `json:"note"`
	Author   string `json:"author"`
}

// noteJob pairs a generated note with its target lead.
type noteJob struct {
	LeadID string
	Body   note
}
