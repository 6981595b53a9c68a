package model

// DashboardMetrics is the aggregate snapshot shown on the dashboard.
// It is fixture data and is not derived from the lead collection.
type DashboardMetrics struct {
	TotalLeads      int            `json:"total_leads"`
	NewLeads        int            `json:"new_leads"`
	QualifiedLeads  int            `json:"qualified_leads"`
	ConvertedLeads  int            `json:"converted_leads"`
	ConversionRate  float64        `json:"conversion_rate"`
	AvgResponseTime float64        `json:"avg_response_time"`
	TopSources      []SourceCount  `json:"top_sources"`
	MonthlyTrends   []MonthlyTrend `json:"monthly_trends"`
	TeamPerformance []TeamMember   `json:"team_performance"`
	UpcomingTasks   []Task         `json:"upcoming_tasks"`
}

// SourceCount pairs an acquisition channel with its lead count.
type SourceCount struct {
	Source Source `json:"source"`
	Count  int    `json:"count"`
}

// MonthlyTrend is one point of the per-month lead/conversion series.
type MonthlyTrend struct {
	Month       string `json:"month"`
	Leads       int    `json:"leads"`
	Conversions int    `json:"conversions"`
}

// TeamMember is one row of the sales team performance table.
type TeamMember struct {
	Name        string  `json:"name"`
	Leads       int     `json:"leads"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// Task is an entry of the upcoming tasks list.
type Task struct {
	ID       int          `json:"id"`
	Task     string       `json:"task"`
	Type     ActivityType `json:"type"`
	Priority Priority     `json:"priority"`
	Time     string       `json:"time"`
}

// Clone returns a copy that shares no slices with m.
func (m DashboardMetrics) Clone() DashboardMetrics {
	out := m
	out.TopSources = append([]SourceCount(nil), m.TopSources...)
	out.MonthlyTrends = append([]MonthlyTrend(nil), m.MonthlyTrends...)
	out.TeamPerformance = append([]TeamMember(nil), m.TeamPerformance...)
	out.UpcomingTasks = append([]Task(nil), m.UpcomingTasks...)
	return out
}
