// Package fixtures provides the preloaded lead data set and the dashboard
// snapshot, either built in or read from a seed file.
package fixtures

import (
	"time"

	"github.com/okian/leadboard/internal/domain/model"
)

// Seed is a complete data set.
type Seed struct {
	Leads   []model.Lead           `json:"leads"`
	Metrics model.DashboardMetrics `json:"metrics"`
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns a fresh copy of the built-in data set.
func Default() Seed {
	return Seed{Leads: Leads(), Metrics: Metrics()}
}

// Leads returns the built-in leads in display order.
func Leads() []model.Lead {
	return []model.Lead{
		{
			ID:                "1",
			FirstName:         "John",
			LastName:          "Smith",
			Email:             "john.smith@email.com",
			Phone:             "+1 (555) 123-4567",
			Source:            model.SourceFacebook,
			Status:            model.StatusQualified,
			Priority:          model.PriorityHigh,
			InterestedVehicle: "Honda Civic 2024",
			Budget:            "$25,000 - $30,000",
			AssignedTo:        "Sarah Johnson",
			CreatedAt:         ts("2024-12-15T09:00:00Z"),
			LastContact:       ts("2024-12-15T11:15:00Z"),
			Notes:             "Looking for reliable family car. Interested in financing options.",
			Score:             85,
			Activities: []model.Activity{
				{ID: "1", Type: model.ActivityCall, Description: "Initial contact - discussed Honda Civic interest", Timestamp: ts("2024-12-15T10:30:00Z"), PerformedBy: "Sarah Johnson"},
				{ID: "2", Type: model.ActivityEmail, Description: "Sent vehicle specifications and pricing", Timestamp: ts("2024-12-15T11:15:00Z"), PerformedBy: "Sarah Johnson"},
			},
		},
		{
			ID:                "2",
			FirstName:         "Emily",
			LastName:          "Davis",
			Email:             "emily.davis@email.com",
			Phone:             "+1 (555) 234-5678",
			Source:            model.SourceGoogle,
			Status:            model.StatusNew,
			Priority:          model.PriorityMedium,
			InterestedVehicle: "Toyota Camry 2024",
			Budget:            "$30,000 - $35,000",
			AssignedTo:        "Mike Wilson",
			CreatedAt:         ts("2024-12-16T14:30:00Z"),
			LastContact:       ts("2024-12-16T14:30:00Z"),
			Notes:             "Submitted inquiry through website contact form.",
			Score:             65,
			Activities: []model.Activity{
				{ID: "3", Type: model.ActivityNote, Description: "Lead created from website inquiry", Timestamp: ts("2024-12-16T14:30:00Z"), PerformedBy: "System"},
			},
		},
		{
			ID:                "3",
			FirstName:         "Robert",
			LastName:          "Brown",
			Email:             "robert.brown@email.com",
			Phone:             "+1 (555) 345-6789",
			Source:            model.SourceWebsite,
			Status:            model.StatusFollowUp,
			Priority:          model.PriorityHigh,
			InterestedVehicle: "BMW X3 2024",
			Budget:            "$45,000 - $50,000",
			AssignedTo:        "Sarah Johnson",
			CreatedAt:         ts("2024-12-14T16:45:00Z"),
			LastContact:       ts("2024-12-15T10:00:00Z"),
			Notes:             "Previous BMW owner. Interested in trade-in value.",
			Score:             90,
			Activities: []model.Activity{
				{ID: "4", Type: model.ActivityCall, Description: "Discussed trade-in options for current BMW X1", Timestamp: ts("2024-12-15T10:00:00Z"), PerformedBy: "Sarah Johnson"},
			},
		},
		{
			ID:                "4",
			FirstName:         "Lisa",
			LastName:          "Wilson",
			Email:             "lisa.wilson@email.com",
			Phone:             "+1 (555) 456-7890",
			Source:            model.SourceTwitter,
			Status:            model.StatusNotInterested,
			Priority:          model.PriorityLow,
			InterestedVehicle: "Ford Mustang 2024",
			Budget:            "$35,000 - $40,000",
			AssignedTo:        "Mike Wilson",
			CreatedAt:         ts("2024-12-13T11:20:00Z"),
			LastContact:       ts("2024-12-14T09:30:00Z"),
			Notes:             "Found a vehicle elsewhere. Not interested at this time.",
			Score:             25,
			Activities: []model.Activity{
				{ID: "5", Type: model.ActivityCall, Description: "Called to follow up - customer found vehicle elsewhere", Timestamp: ts("2024-12-14T09:30:00Z"), PerformedBy: "Mike Wilson"},
			},
		},
		{
			ID:                "5",
			FirstName:         "David",
			LastName:          "Johnson",
			Email:             "david.johnson@email.com",
			Phone:             "+1 (555) 567-8901",
			Source:            model.SourceOfflineEvent,
			Status:            model.StatusConverted,
			Priority:          model.PriorityHigh,
			InterestedVehicle: "Mercedes C-Class 2024",
			Budget:            "$40,000 - $45,000",
			AssignedTo:        "Sarah Johnson",
			CreatedAt:         ts("2024-12-10T10:00:00Z"),
			LastContact:       ts("2024-12-16T15:30:00Z"),
			Notes:             "Met at auto show. Purchased vehicle today!",
			Score:             100,
			Activities: []model.Activity{
				{ID: "6", Type: model.ActivityMeeting, Description: "Auto show contact - very interested", Timestamp: ts("2024-12-10T10:00:00Z"), PerformedBy: "Sarah Johnson"},
				{ID: "7", Type: model.ActivityStatusChange, Description: "Converted - Purchase completed", Timestamp: ts("2024-12-16T15:30:00Z"), PerformedBy: "Sarah Johnson"},
			},
		},
		{
			ID:                "6",
			FirstName:         "Michelle",
			LastName:          "Thompson",
			Email:             "michelle.thompson@email.com",
			Phone:             "+1 (555) 678-9012",
			Source:            model.SourceReferral,
			Status:            model.StatusContacted,
			Priority:          model.PriorityMedium,
			InterestedVehicle: "Audi A4 2024",
			Budget:            "$42,000 - $47,000",
			AssignedTo:        "Mike Wilson",
			CreatedAt:         ts("2024-12-16T08:15:00Z"),
			LastContact:       ts("2024-12-16T13:45:00Z"),
			Notes:             "Referred by existing customer David Johnson. Interested in Audi lineup.",
			Score:             75,
			Activities: []model.Activity{
				{ID: "8", Type: model.ActivityEmail, Description: "Sent welcome email and Audi brochures", Timestamp: ts("2024-12-16T13:45:00Z"), PerformedBy: "Mike Wilson"},
			},
		},
	}
}

// Metrics returns the built-in dashboard snapshot. Its totals are fixture
// values and do not match the six built-in leads.
func Metrics() model.DashboardMetrics {
	return model.DashboardMetrics{
		TotalLeads:      156,
		NewLeads:        23,
		QualifiedLeads:  45,
		ConvertedLeads:  12,
		ConversionRate:  7.7,
		AvgResponseTime: 2.5,
		TopSources: []model.SourceCount{
			{Source: model.SourceWebsite, Count: 52},
			{Source: model.SourceGoogle, Count: 38},
			{Source: model.SourceFacebook, Count: 28},
			{Source: model.SourceReferral, Count: 22},
			{Source: model.SourceOfflineEvent, Count: 16},
		},
		MonthlyTrends: []model.MonthlyTrend{
			{Month: "Aug", Leads: 134, Conversions: 8},
			{Month: "Sep", Leads: 142, Conversions: 11},
			{Month: "Oct", Leads: 128, Conversions: 9},
			{Month: "Nov", Leads: 156, Conversions: 12},
			{Month: "Dec", Leads: 89, Conversions: 7},
		},
		TeamPerformance: []model.TeamMember{
			{Name: "Sarah Johnson", Leads: 28, Conversions: 6, Rate: 21.4},
			{Name: "Mike Wilson", Leads: 24, Conversions: 4, Rate: 16.7},
			{Name: "Jennifer Davis", Leads: 19, Conversions: 3, Rate: 15.8},
			{Name: "Robert Chen", Leads: 16, Conversions: 2, Rate: 12.5},
		},
		UpcomingTasks: []model.Task{
			{ID: 1, Task: "Follow up with John Smith", Type: model.ActivityCall, Priority: model.PriorityHigh, Time: "10:00 AM"},
			{ID: 2, Task: "Send proposal to Emily Davis", Type: model.ActivityEmail, Priority: model.PriorityMedium, Time: "2:00 PM"},
			{ID: 3, Task: "Schedule test drive for Robert Brown", Type: model.ActivityMeeting, Priority: model.PriorityHigh, Time: "4:30 PM"},
			{ID: 4, Task: "Weekly team meeting", Type: model.ActivityMeeting, Priority: model.PriorityLow, Time: "5:00 PM"},
		},
	}
}
