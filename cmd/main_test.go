package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/leadboard/internal/adapters/notify"
	"github.com/okian/leadboard/internal/adapters/repository"
	app "github.com/okian/leadboard/internal/app"
	"github.com/okian/leadboard/internal/config"
	"github.com/okian/leadboard/pkg/logger"
)

func TestMainComponents(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("When no seed file is configured", func() {
			seed, err := loadSeed(ctx, cfg)

			convey.Convey("Then the built-in fixtures are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(seed.Leads, convey.ShouldHaveLength, 6)
				convey.So(seed.Metrics.TotalLeads, convey.ShouldEqual, 156)
			})
		})

		convey.Convey("When a seed file is configured", func() {
			path := filepath.Join(t.TempDir(), "seed.json")
			body := `{"leads":[{"id":"a","first_name":"Ann","status":"new","last_contact":"2024-12-16T10:00:00Z"}]}`
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)
			cfg.SeedFile = path

			seed, err := loadSeed(ctx, cfg)

			convey.Convey("Then its leads replace the fixtures", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(seed.Leads, convey.ShouldHaveLength, 1)
				convey.So(seed.Leads[0].FirstName, convey.ShouldEqual, "Ann")
			})
		})

		convey.Convey("When the seed file is missing", func() {
			cfg.SeedFile = "/non/existent/seed.yaml"
			_, err := loadSeed(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When building the memory repository", func() {
			seed, _ := loadSeed(ctx, cfg)
			repo, closeRepo, err := buildRepository(ctx, cfg, seed)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = closeRepo() }()

			convey.Convey("Then it holds the seed", func() {
				_, ok := repo.(*repository.MemoryStore)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(repo.Count(ctx), convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When no collaborators are configured", func() {
			publisher, mailer, err := buildNotifiers(cfg)

			convey.Convey("Then no-op notifiers are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(publisher, convey.ShouldHaveSameTypeAs, notify.NopPublisher{})
				convey.So(mailer, convey.ShouldHaveSameTypeAs, notify.NopMailer{})
			})
		})

		convey.Convey("When SMTP is configured", func() {
			cfg.SMTPHost = "smtp.example.com"
			_, mailer, err := buildNotifiers(cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(mailer, convey.ShouldHaveSameTypeAs, &notify.SMTPMailer{})
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given the assembled handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc := app.New(app.WithLogger(logger.Nop()))
		h := newHandler(svc, cfg)

		for _, path := range []string{"/leads", "/leads/1", "/stats/leads", "/dashboard/metrics", "/healthz", "/api-docs", "/openapi.yaml"} {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}

		req := httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
	})
}
