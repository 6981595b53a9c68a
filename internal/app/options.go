package service

import (
	"time"

	"github.com/okian/leadboard/internal/adapters/mq/worker"
	"github.com/okian/leadboard/internal/adapters/notify"
	"github.com/okian/leadboard/internal/adapters/repository"
	"github.com/okian/leadboard/internal/domain/query"
	"github.com/okian/leadboard/pkg/logger"
)

// Write modes.
const (
	WriteModeLog   = "log"
	WriteModeApply = "apply"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRepository sets the lead store. Defaults to a MemoryStore over the
// built-in fixtures.
func WithRepository(repo repository.Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// WithWorkerCount sets the number of action workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the action queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the number of remembered action ids.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxTopLimit caps the hot-lead board size.
func WithMaxTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopLimit = n
		}
	}
}

// WithOverduePolicy overrides the 24h/48h thresholds.
func WithOverduePolicy(p query.OverduePolicy) Option {
	return func(s *Service) {
		if p.NewAfter > 0 && p.FollowUpAfter > 0 {
			s.policy = p
		}
	}
}

// WithClock sets the source of "now" for overdue checks and action stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWriteMode selects WriteModeLog or WriteModeApply.
func WithWriteMode(mode string) Option {
	return func(s *Service) {
		s.writeMode = mode
	}
}

// WithPublisher sets where applied actions are announced.
func WithPublisher(p notify.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMailer sets the campaign mailer used by send-email.
func WithMailer(m notify.Mailer) Option {
	return func(s *Service) {
		if m != nil {
			s.mailer = m
		}
	}
}

// WithApplier replaces the applier chosen by the write mode.
func WithApplier(a worker.Applier) Option {
	return func(s *Service) {
		s.applier = a
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
