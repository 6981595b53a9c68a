package model

import "strings"

// Status is a lead's funnel stage.
type Status string

// Known statuses.
const (
	StatusNew           Status = "New"
	StatusContacted     Status = "Contacted"
	StatusQualified     Status = "Qualified"
	StatusNotInterested Status = "Not Interested"
	StatusFollowUp      Status = "Follow Up"
	StatusConverted     Status = "Converted"

	// StatusUnknown is the bucket for values outside the closed set.
	StatusUnknown Status = "Unknown"
)

// Statuses lists the closed status set in funnel order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusNotInterested,
	StatusFollowUp,
	StatusConverted,
}

// ParseStatus resolves s against the closed set, ignoring case and
// surrounding whitespace. Unknown input is returned trimmed with ok=false.
func ParseStatus(s string) (Status, bool) {
	v, ok := parseEnum(s, Statuses)
	return v, ok
}

// Known reports whether s belongs to the closed set.
func (s Status) Known() bool { return contains(Statuses, s) }

// Bucket returns s when known and StatusUnknown otherwise.
func (s Status) Bucket() Status {
	if s.Known() {
		return s
	}
	return StatusUnknown
}

// UnmarshalText canonicalises known values and keeps unknown ones verbatim.
func (s *Status) UnmarshalText(b []byte) error {
	*s, _ = ParseStatus(string(b))
	return nil
}

// Source is the channel a lead was acquired through.
type Source string

// Known sources.
const (
	SourceFacebook     Source = "Facebook"
	SourceTwitter      Source = "Twitter"
	SourceGoogle       Source = "Google"
	SourceWebsite      Source = "Website"
	SourceOfflineEvent Source = "Offline Event"
	SourceReferral     Source = "Referral"

	SourceUnknown Source = "Unknown"
)

// Sources lists the closed source set.
var Sources = []Source{
	SourceFacebook,
	SourceTwitter,
	SourceGoogle,
	SourceWebsite,
	SourceOfflineEvent,
	SourceReferral,
}

// ParseSource resolves s against the closed set.
func ParseSource(s string) (Source, bool) { return parseEnum(s, Sources) }

// Known reports whether s belongs to the closed set.
func (s Source) Known() bool { return contains(Sources, s) }

// Bucket returns s when known and SourceUnknown otherwise.
func (s Source) Bucket() Source {
	if s.Known() {
		return s
	}
	return SourceUnknown
}

// UnmarshalText canonicalises known values and keeps unknown ones verbatim.
func (s *Source) UnmarshalText(b []byte) error {
	*s, _ = ParseSource(string(b))
	return nil
}

// Priority ranks how urgently a lead should be worked.
type Priority string

// Known priorities.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"

	PriorityUnknown Priority = "Unknown"
)

// Priorities lists the closed priority set, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority resolves s against the closed set.
func ParsePriority(s string) (Priority, bool) { return parseEnum(s, Priorities) }

// Known reports whether p belongs to the closed set.
func (p Priority) Known() bool { return contains(Priorities, p) }

// Bucket returns p when known and PriorityUnknown otherwise.
func (p Priority) Bucket() Priority {
	if p.Known() {
		return p
	}
	return PriorityUnknown
}

// UnmarshalText canonicalises known values and keeps unknown ones verbatim.
func (p *Priority) UnmarshalText(b []byte) error {
	*p, _ = ParsePriority(string(b))
	return nil
}

// ActivityType classifies an interaction logged against a lead.
type ActivityType string

// Known activity types.
const (
	ActivityCall         ActivityType = "Call"
	ActivityEmail        ActivityType = "Email"
	ActivityMeeting      ActivityType = "Meeting"
	ActivityNote         ActivityType = "Note"
	ActivityStatusChange ActivityType = "Status Change"

	ActivityUnknown ActivityType = "Unknown"
)

// ActivityTypes lists the closed activity type set.
var ActivityTypes = []ActivityType{
	ActivityCall,
	ActivityEmail,
	ActivityMeeting,
	ActivityNote,
	ActivityStatusChange,
}

// ParseActivityType resolves s against the closed set.
func ParseActivityType(s string) (ActivityType, bool) { return parseEnum(s, ActivityTypes) }

// Known reports whether t belongs to the closed set.
func (t ActivityType) Known() bool { return contains(ActivityTypes, t) }

// UnmarshalText canonicalises known values and keeps unknown ones verbatim.
func (t *ActivityType) UnmarshalText(b []byte) error {
	*t, _ = ParseActivityType(string(b))
	return nil
}

func parseEnum[T ~string](s string, set []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range set {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return T(s), false
}

func contains[T ~string](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
