package fixtures_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultSeed(t *testing.T) {
	Convey("Given the built-in seed", t, func() {
		seed := fixtures.Default()

		Convey("Then it holds six leads with eight activities in display order", func() {
			So(seed.Leads, ShouldHaveLength, 6)
			activities := 0
			for i, l := range seed.Leads {
				So(l.ID, ShouldEqual, string(rune('1'+i)))
				activities += len(l.Activities)
			}
			So(activities, ShouldEqual, 8)
			So(fixtures.Validate(seed), ShouldBeNil)
		})

		Convey("Then the dashboard snapshot is the fixture values", func() {
			So(seed.Metrics.TotalLeads, ShouldEqual, 156)
			So(seed.Metrics.ConversionRate, ShouldEqual, 7.7)
			So(seed.Metrics.TopSources, ShouldHaveLength, 5)
			So(seed.Metrics.TopSources[0].Source, ShouldEqual, model.SourceWebsite)
			So(seed.Metrics.MonthlyTrends, ShouldHaveLength, 5)
			So(seed.Metrics.TeamPerformance, ShouldHaveLength, 4)
			So(seed.Metrics.UpcomingTasks, ShouldHaveLength, 4)
		})

		Convey("Then each call returns an independent copy", func() {
			a := fixtures.Leads()
			a[0].Activities[0].Description = "mutated"
			So(fixtures.Leads()[0].Activities[0].Description, ShouldNotEqual, "mutated")
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given seed files on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When loading a YAML seed", func() {
			path := writeFile(dir, "seed.yaml", `
leads:
  - id: "a1"
    first_name: Ann
    last_name: Lee
    email: ann@example.com
    source: google
    status: follow up
    priority: HIGH
    interested_vehicle: Kia EV6
    assigned_to: Sam
    score: 70
    created_at: "2024-12-01T10:00:00Z"
    last_contact: "2024-12-02T10:00:00Z"
    activities:
      - id: "x1"
        type: call
        description: first call
        timestamp: "2024-12-02T10:00:00Z"
        performed_by: Sam
  - id: "a2"
    first_name: Bo
    source: Radio
    status: Archived
    score: 10
    created_at: "2024-12-01T10:00:00Z"
    last_contact: "2024-12-01T10:00:00Z"
`)
			seed, err := fixtures.LoadFile(ctx, path)

			Convey("Then leads decode with canonical enums and unknowns kept", func() {
				So(err, ShouldBeNil)
				So(seed.Leads, ShouldHaveLength, 2)
				l := seed.Leads[0]
				So(l.Source, ShouldEqual, model.SourceGoogle)
				So(l.Status, ShouldEqual, model.StatusFollowUp)
				So(l.Priority, ShouldEqual, model.PriorityHigh)
				So(l.Score, ShouldEqual, 70)
				So(l.LastContact.Equal(time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(l.Activities, ShouldHaveLength, 1)
				So(l.Activities[0].Type, ShouldEqual, model.ActivityCall)

				So(seed.Leads[1].Source.Bucket(), ShouldEqual, model.SourceUnknown)
				So(seed.Leads[1].Status, ShouldEqual, model.Status("Archived"))
			})

			Convey("Then the built-in snapshot is kept", func() {
				So(seed.Metrics.TotalLeads, ShouldEqual, 156)
			})
		})

		Convey("When loading a JSON seed with metrics", func() {
			path := writeFile(dir, "seed.json", `{
  "leads": [{"id": "j1", "status": "New", "score": 40,
             "created_at": "2024-12-01T10:00:00Z", "last_contact": "2024-12-01T10:00:00Z"}],
  "metrics": {"total_leads": 1, "conversion_rate": 12.5,
              "top_sources": [{"source": "Website", "count": 8}]}
}`)
			seed, err := fixtures.LoadFile(ctx, path)

			Convey("Then the file snapshot replaces the built-in one", func() {
				So(err, ShouldBeNil)
				So(seed.Leads, ShouldHaveLength, 1)
				So(seed.Metrics.TotalLeads, ShouldEqual, 1)
				So(seed.Metrics.ConversionRate, ShouldEqual, 12.5)
				So(seed.Metrics.TopSources, ShouldHaveLength, 1)
				So(seed.Metrics.TeamPerformance, ShouldBeEmpty)
			})
		})

		Convey("When the extension is unsupported", func() {
			_, err := fixtures.LoadFile(ctx, writeFile(dir, "seed.toml", "x = 1"))
			So(errors.Is(err, fixtures.ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("When the file is missing", func() {
			_, err := fixtures.LoadFile(ctx, filepath.Join(dir, "missing.yaml"))
			So(errors.Is(err, fixtures.ErrLoadSeed), ShouldBeTrue)
		})

		Convey("When lead ids repeat", func() {
			path := writeFile(dir, "dup.json", `{"leads":[{"id":"1"},{"id":"1"}]}`)
			_, err := fixtures.LoadFile(ctx, path)
			So(errors.Is(err, fixtures.ErrDuplicateLeadID), ShouldBeTrue)
		})
	})
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}
