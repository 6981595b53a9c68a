package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnums(t *testing.T) {
	Convey("Given the closed enum sets", t, func() {
		Convey("When parsing statuses regardless of case and padding", func() {
			s, ok := model.ParseStatus("  follow up ")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, model.StatusFollowUp)

			s, ok = model.ParseStatus("NOT INTERESTED")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, model.StatusNotInterested)
		})

		Convey("When parsing an unknown value", func() {
			s, ok := model.ParseStatus(" Archived ")

			Convey("Then the trimmed raw text is kept and it buckets as Unknown", func() {
				So(ok, ShouldBeFalse)
				So(s, ShouldEqual, model.Status("Archived"))
				So(s.Known(), ShouldBeFalse)
				So(s.Bucket(), ShouldEqual, model.StatusUnknown)
			})
		})

		Convey("When parsing sources and priorities", func() {
			src, ok := model.ParseSource("offline event")
			So(ok, ShouldBeTrue)
			So(src, ShouldEqual, model.SourceOfflineEvent)

			src, ok = model.ParseSource("TikTok")
			So(ok, ShouldBeFalse)
			So(src.Bucket(), ShouldEqual, model.SourceUnknown)

			p, ok := model.ParsePriority("high")
			So(ok, ShouldBeTrue)
			So(p, ShouldEqual, model.PriorityHigh)
			So(model.Priority("Urgent").Bucket(), ShouldEqual, model.PriorityUnknown)
		})

		Convey("When decoding a lead from JSON", func() {
			raw := `{"id":"9","status":"qualified","source":"Carrier Pigeon","priority":"LOW",
				"created_at":"2024-12-15T09:00:00Z","last_contact":"2024-12-15T11:15:00Z",
				"activities":[{"id":"a","type":"status change","timestamp":"2024-12-15T11:15:00Z"}]}`
			var l model.Lead
			err := json.Unmarshal([]byte(raw), &l)

			Convey("Then known values are canonicalised and unknown ones kept", func() {
				So(err, ShouldBeNil)
				So(l.Status, ShouldEqual, model.StatusQualified)
				So(l.Priority, ShouldEqual, model.PriorityLow)
				So(l.Source, ShouldEqual, model.Source("Carrier Pigeon"))
				So(l.Activities[0].Type, ShouldEqual, model.ActivityStatusChange)
				So(l.CreatedAt.Equal(time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})
	})
}

func TestLead(t *testing.T) {
	Convey("Given a lead with activities", t, func() {
		l := model.Lead{
			ID:         "1",
			FirstName:  "John",
			LastName:   "Smith",
			AssignedTo: "Sarah Johnson",
			Activities: []model.Activity{{ID: "1", Type: model.ActivityCall}},
		}

		Convey("When cloning it", func() {
			c := l.Clone()
			c.Activities[0].Description = "changed"
			c.Activities = append(c.Activities, model.Activity{ID: "2"})

			Convey("Then the original is untouched", func() {
				So(l.Activities, ShouldHaveLength, 1)
				So(l.Activities[0].Description, ShouldBeEmpty)
			})
		})

		Convey("Then helpers describe ownership and name", func() {
			So(l.FullName(), ShouldEqual, "John Smith")
			So(l.Unassigned(), ShouldBeFalse)
			l.AssignedTo = " "
			So(l.Unassigned(), ShouldBeTrue)
			l.AssignedTo = model.Unassigned
			So(l.Unassigned(), ShouldBeTrue)
		})
	})
}

func TestActionValidate(t *testing.T) {
	Convey("Given action payloads", t, func() {
		base := model.Action{ID: "act-1", Kind: model.ActionAddNote, LeadIDs: []string{"1"}, Note: "called back"}

		Convey("A well-formed note is valid", func() {
			So(base.Validate(), ShouldBeNil)
		})

		Convey("A missing id is rejected", func() {
			a := base
			a.ID = ""
			So(a.Validate(), ShouldEqual, model.ErrMissingActionID)
		})

		Convey("An unknown kind is rejected", func() {
			a := base
			a.Kind = "archive"
			So(errors.Is(a.Validate(), model.ErrUnknownActionKind), ShouldBeTrue)
		})

		Convey("An action without leads is rejected", func() {
			a := base
			a.LeadIDs = nil
			So(a.Validate(), ShouldEqual, model.ErrNoLeads)
			a.LeadIDs = []string{"1", "  "}
			So(errors.Is(a.Validate(), model.ErrNoLeads), ShouldBeTrue)
		})

		Convey("A blank note is rejected", func() {
			a := base
			a.Note = "   "
			So(a.Validate(), ShouldEqual, model.ErrEmptyNote)
		})

		Convey("A status update needs a known status", func() {
			a := model.Action{ID: "x", Kind: model.ActionUpdateStatus, LeadIDs: []string{"1"}, Status: "Lost"}
			So(errors.Is(a.Validate(), model.ErrInvalidStatus), ShouldBeTrue)
			a.Status = model.StatusConverted
			So(a.Validate(), ShouldBeNil)

			st, ok := a.TargetStatus()
			So(ok, ShouldBeTrue)
			So(st, ShouldEqual, model.StatusConverted)
		})

		Convey("Assign needs an assignee", func() {
			a := model.Action{ID: "x", Kind: model.ActionAssign, LeadIDs: []string{"1"}}
			So(a.Validate(), ShouldEqual, model.ErrMissingAssignee)
		})

		Convey("Bulk status shortcuts map to fixed statuses", func() {
			st, ok := model.Action{Kind: model.ActionStatusFollowUp}.TargetStatus()
			So(ok, ShouldBeTrue)
			So(st, ShouldEqual, model.StatusFollowUp)

			_, ok = model.Action{Kind: model.ActionExport}.TargetStatus()
			So(ok, ShouldBeFalse)
		})
	})
}
