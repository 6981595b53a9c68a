package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/leadboard/internal/adapters/notify"
	"github.com/okian/leadboard/internal/adapters/repository"
	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/pkg/logger"
)

const systemAuthor = "System"

// LogApplier records accepted actions without touching the store.
type LogApplier struct {
	logger logger.Logger
}

// NewLogApplier returns the applier used in log write mode.
func NewLogApplier(l logger.Logger) *LogApplier {
	if l == nil {
		l = logger.Get()
	}
	return &LogApplier{logger: l.Named("applier")}
}

// Apply logs the action.
func (a *LogApplier) Apply(ctx context.Context, act model.Action) error { //nolint:gocritic // hugeParam: matches worker.Applier
	a.logger.Info(ctx, "action received",
		logger.String("action_id", act.ID),
		logger.String("kind", string(act.Kind)),
		logger.Strings("lead_ids", act.LeadIDs),
		logger.String("status", string(act.Status)),
		logger.String("assignee", act.Assignee),
		logger.Int("note_length", len(act.Note)),
	)
	return nil
}

// StoreApplier writes actions through the repository and notifies
// collaborators. Leads are handled independently; the errors of all failed
// leads are joined.
type StoreApplier struct {
	repo      repository.Repository
	publisher notify.Publisher
	mailer    notify.Mailer
	logger    logger.Logger
}

// NewStoreApplier returns the applier used in apply write mode.
func NewStoreApplier(repo repository.Repository, p notify.Publisher, m notify.Mailer, l logger.Logger) *StoreApplier {
	if p == nil {
		p = notify.NopPublisher{}
	}
	if m == nil {
		m = notify.NopMailer{}
	}
	if l == nil {
		l = logger.Get()
	}
	return &StoreApplier{repo: repo, publisher: p, mailer: m, logger: l.Named("applier")}
}

// Apply performs act against every lead it names.
func (a *StoreApplier) Apply(ctx context.Context, act model.Action) error { //nolint:gocritic // hugeParam: matches worker.Applier
	var errs []error
	for _, id := range act.LeadIDs {
		if err := a.applyOne(ctx, act, id); err != nil {
			errs = append(errs, fmt.Errorf("lead %s: %w", id, err))
			continue
		}
		if err := a.publisher.Publish(ctx, eventFor(act, id)); err != nil {
			errs = append(errs, fmt.Errorf("lead %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// errUnchanged aborts an update that would not change the lead.
var errUnchanged = errors.New("lead unchanged")

func (a *StoreApplier) applyOne(ctx context.Context, act model.Action, id string) error { //nolint:gocritic // hugeParam
	switch act.Kind {
	case model.ActionAddNote:
		return a.repo.AppendActivity(ctx, id, activity(act, model.ActivityNote, strings.TrimSpace(act.Note)))

	case model.ActionUpdateStatus, model.ActionStatusContacted, model.ActionStatusFollowUp:
		target, _ := act.TargetStatus()
		var from model.Status
		err := a.repo.UpdateLead(ctx, id, func(l *model.Lead) error {
			if l.Status == target {
				return errUnchanged
			}
			from, l.Status = l.Status, target
			return nil
		})
		if err != nil {
			return ignoreUnchanged(err)
		}
		desc := fmt.Sprintf("Status changed from %s to %s", from, target)
		return a.repo.AppendActivity(ctx, id, activity(act, model.ActivityStatusChange, desc))

	case model.ActionAssign:
		assignee := strings.TrimSpace(act.Assignee)
		err := a.repo.UpdateLead(ctx, id, func(l *model.Lead) error {
			if l.AssignedTo == assignee {
				return errUnchanged
			}
			l.AssignedTo = assignee
			return nil
		})
		if err != nil {
			return ignoreUnchanged(err)
		}
		return a.repo.AppendActivity(ctx, id, activity(act, model.ActivityNote, "Assigned to "+assignee))

	case model.ActionSendEmail:
		lead, err := a.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.mailer.SendCampaign(ctx, lead); err != nil {
			return err
		}
		return a.repo.AppendActivity(ctx, id, activity(act, model.ActivityEmail, "Sent email campaign"))

	case model.ActionExport:
		if _, err := a.repo.FindByID(ctx, id); err != nil {
			return err
		}
		a.logger.Info(ctx, "lead exported", logger.String("lead_id", id), logger.String("action_id", act.ID))
		return nil
	}
	return fmt.Errorf("%w: %q", model.ErrUnknownActionKind, act.Kind)
}

func ignoreUnchanged(err error) error {
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

func activity(act model.Action, typ model.ActivityType, desc string) model.Activity { //nolint:gocritic // hugeParam
	by := strings.TrimSpace(act.Author)
	if by == "" {
		by = systemAuthor
	}
	return model.Activity{
		ID:          uuid.NewString(),
		Type:        typ,
		Description: desc,
		Timestamp:   act.At,
		PerformedBy: by,
	}
}

func eventFor(act model.Action, leadID string) notify.Event { //nolint:gocritic // hugeParam
	e := notify.Event{
		ActionID: act.ID,
		Kind:     act.Kind,
		LeadID:   leadID,
		Assignee: act.Assignee,
		Note:     act.Note,
		Author:   act.Author,
		At:       act.At,
	}
	if st, ok := act.TargetStatus(); ok {
		e.Status = st
	}
	return e
}
