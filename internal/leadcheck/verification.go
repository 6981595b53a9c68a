package leadcheck

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/domain/query"
)

type checkFunc func(ctx context.Context, c *HTTPClient, all []model.Lead, cfg *Config) error

// checks lists every consistency check in run order.
var checks = []struct {
	name string
	fn   checkFunc
}{
	{"filter_identity", checkFilterIdentity},
	{"filter_subset", checkFilterSubset},
	{"query_case_insensitive", checkCaseInsensitive},
	{"distribution_sums", checkDistribution},
	{"summary_total", checkSummary},
	{"top_sorted", checkTop},
	{"lead_lookup", checkLookup},
}

// verifyResults runs every check and records each outcome.
func verifyResults(ctx context.Context, c *HTTPClient, all []model.Lead, cfg *Config) []CheckResult {
	out := make([]CheckResult, 0, len(checks))
	for _, chk := range checks {
		res := CheckResult{Name: chk.name, Passed: true}
		if err := chk.fn(ctx, c, all, cfg); err != nil {
			res.Passed = false
			res.Detail = err.Error()
		}
		out = append(out, res)
	}
	return out
}

func leadIDs(leads []model.Lead) []string {
	out := make([]string, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func sameIDs(a, b []model.Lead) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// checkFilterIdentity verifies that the "all" sentinel disables filtering.
func checkFilterIdentity(ctx context.Context, c *HTTPClient, all []model.Lead, _ *Config) error {
	var got []model.Lead
	if err := c.getJSON(ctx, "/leads?status=all&source=all&assigned_to=all", &got); err != nil {
		return err
	}
	if !sameIDs(got, all) {
		return fmt.Errorf("got %v, want %v", leadIDs(got), leadIDs(all))
	}
	return nil
}

// checkFilterSubset verifies each status filter returns an ordered subset
// whose members all carry that status.
func checkFilterSubset(ctx context.Context, c *HTTPClient, all []model.Lead, _ *Config) error {
	pos := make(map[string]int, len(all))
	for i, l := range all {
		pos[l.ID] = i
	}
	for _, st := range model.Statuses {
		var got []model.Lead
		if err := c.getJSON(ctx, "/leads?status="+url.QueryEscape(string(st)), &got); err != nil {
			return err
		}
		last := -1
		for _, l := range got {
			p, ok := pos[l.ID]
			if !ok || p <= last {
				return fmt.Errorf("status %s: lead %s out of order or unknown", st, l.ID)
			}
			last = p
			if l.Status != st {
				return fmt.Errorf("status %s: lead %s has status %s", st, l.ID, l.Status)
			}
		}
	}
	return nil
}

// checkCaseInsensitive verifies q matching ignores case.
func checkCaseInsensitive(ctx context.Context, c *HTTPClient, all []model.Lead, _ *Config) error {
	if len(all) == 0 {
		return nil
	}
	term := all[0].FirstName
	if term == "" {
		return nil
	}
	var lower, upper []model.Lead
	if err := c.getJSON(ctx, "/leads?q="+url.QueryEscape(strings.ToLower(term)), &lower); err != nil {
		return err
	}
	if err := c.getJSON(ctx, "/leads?q="+url.QueryEscape(strings.ToUpper(term)), &upper); err != nil {
		return err
	}
	if !sameIDs(lower, upper) {
		return fmt.Errorf("q=%q gave %v, upper-case gave %v", term, leadIDs(lower), leadIDs(upper))
	}
	if len(lower) == 0 {
		return fmt.Errorf("q=%q matched nothing", term)
	}
	return nil
}

// checkDistribution verifies every distribution sums to the lead count.
func checkDistribution(ctx context.Context, c *HTTPClient, all []model.Lead, _ *Config) error {
	for _, field := range []string{"status", "source", "priority", "assigned_to"} {
		var groups []query.Group[string]
		if err := c.getJSON(ctx, "/stats/distribution?field="+field, &groups); err != nil {
			return err
		}
		sum := 0
		for _, g := range groups {
			sum += g.Count
		}
		if sum != len(all) {
			return fmt.Errorf("field %s sums to %d, want %d", field, sum, len(all))
		}
	}
	return nil
}

// checkSummary verifies the summary total and per-status counts.
func checkSummary(ctx context.Context, c *HTTPClient, all []model.Lead, _ *Config) error {
	var got query.Summary
	if err := c.getJSON(ctx, "/stats/leads", &got); err != nil {
		return err
	}
	want := query.Summarize(all)
	if got.Total != want.Total {
		return fmt.Errorf("total %d, want %d", got.Total, want.Total)
	}
	for _, st := range model.Statuses {
		if got.ByStatus[st] != want.ByStatus[st] {
			return fmt.Errorf("status %s count %d, want %d", st, got.ByStatus[st], want.ByStatus[st])
		}
	}
	return nil
}

// checkTop verifies the hot-lead board is sorted by score.
func checkTop(ctx context.Context, c *HTTPClient, all []model.Lead, cfg *Config) error {
	n := cfg.TopN
	if n < 1 {
		n = 1
	}
	var got []model.Lead
	if err := c.getJSON(ctx, "/leads/top?limit="+strconv.Itoa(n), &got); err != nil {
		return err
	}
	if want := min(n, len(all)); len(got) != want {
		return fmt.Errorf("got %d leads, want %d", len(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			return fmt.Errorf("entry %d scores %d above entry %d (%d)", i, got[i].Score, i-1, got[i-1].Score)
		}
	}
	return nil
}

// checkLookup verifies a known id resolves and a random one is 404.
func checkLookup(ctx context.Context, c *HTTPClient, all []model.Lead, _ *Config) error {
	if len(all) > 0 {
		var l model.Lead
		if err := c.getJSON(ctx, "/leads/"+url.PathEscape(all[0].ID), &l); err != nil {
			return err
		}
		if l.ID != all[0].ID {
			return fmt.Errorf("lookup %s returned %s", all[0].ID, l.ID)
		}
	}
	resp, err := c.Get(ctx, "/leads/"+uuid.NewString())
	if err != nil {
		return err
	}
	_, _ = readResponseBody(resp)
	if resp.StatusCode != 404 {
		return fmt.Errorf("unknown lead answered %d, want 404", resp.StatusCode)
	}
	return nil
}
