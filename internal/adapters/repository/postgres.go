package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	seq                BIGSERIAL,
	id                 TEXT PRIMARY KEY,
	first_name         TEXT NOT NULL DEFAULT '',
	last_name          TEXT NOT NULL DEFAULT '',
	email              TEXT NOT NULL DEFAULT '',
	phone              TEXT NOT NULL DEFAULT '',
	source             TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT '',
	priority           TEXT NOT NULL DEFAULT '',
	interested_vehicle TEXT NOT NULL DEFAULT '',
	budget             TEXT NOT NULL DEFAULT '',
	assigned_to        TEXT NOT NULL DEFAULT '',
	score              INTEGER NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL,
	last_contact       TIMESTAMPTZ NOT NULL,
	notes              TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS lead_activities (
	seq          BIGSERIAL PRIMARY KEY,
	id           TEXT NOT NULL,
	lead_id      TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	type         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	occurred_at  TIMESTAMPTZ NOT NULL,
	performed_by TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS lead_activities_lead_id ON lead_activities (lead_id, seq);
`

const leadColumns = `id, first_name, last_name, email, phone, source, status, priority,
	interested_vehicle, budget, assigned_to, score, created_at, last_contact, notes`

const upsertLead = `
INSERT INTO leads (` + leadColumns + `)
VALUES (:id, :first_name, :last_name, :email, :phone, :source, :status, :priority,
	:interested_vehicle, :budget, :assigned_to, :score, :created_at, :last_contact, :notes)
ON CONFLICT (id) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	source = EXCLUDED.source,
	status = EXCLUDED.status,
	priority = EXCLUDED.priority,
	interested_vehicle = EXCLUDED.interested_vehicle,
	budget = EXCLUDED.budget,
	assigned_to = EXCLUDED.assigned_to,
	score = EXCLUDED.score,
	created_at = EXCLUDED.created_at,
	last_contact = GREATEST(leads.last_contact, EXCLUDED.last_contact),
	notes = EXCLUDED.notes`

const insertActivity = `
INSERT INTO lead_activities (id, lead_id, type, description, occurred_at, performed_by)
VALUES (:id, :lead_id, :type, :description, :occurred_at, :performed_by)`

type leadRow struct {
	ID                string    `db:"id"`
	FirstName         string    `db:"first_name"`
	LastName          string    `db:"last_name"`
	Email             string    `db:"email"`
	Phone             string    `db:"phone"`
	Source            string    `db:"source"`
	Status            string    `db:"status"`
	Priority          string    `db:"priority"`
	InterestedVehicle string    `db:"interested_vehicle"`
	Budget            string    `db:"budget"`
	AssignedTo        string    `db:"assigned_to"`
	Score             int       `db:"score"`
	CreatedAt         time.Time `db:"created_at"`
	LastContact       time.Time `db:"last_contact"`
	Notes             string    `db:"notes"`
}

type activityRow struct {
	ID          string    `db:"id"`
	LeadID      string    `db:"lead_id"`
	Type        string    `db:"type"`
	Description string    `db:"description"`
	OccurredAt  time.Time `db:"occurred_at"`
	PerformedBy string    `db:"performed_by"`
}

func toLeadRow(l model.Lead) leadRow {
	return leadRow{
		ID:                l.ID,
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		Email:             l.Email,
		Phone:             l.Phone,
		Source:            string(l.Source),
		Status:            string(l.Status),
		Priority:          string(l.Priority),
		InterestedVehicle: l.InterestedVehicle,
		Budget:            l.Budget,
		AssignedTo:        l.AssignedTo,
		Score:             l.Score,
		CreatedAt:         l.CreatedAt.UTC(),
		LastContact:       l.LastContact.UTC(),
		Notes:             l.Notes,
	}
}

func (r leadRow) toModel() model.Lead {
	source, _ := model.ParseSource(r.Source)
	status, _ := model.ParseStatus(r.Status)
	priority, _ := model.ParsePriority(r.Priority)
	return model.Lead{
		ID:                r.ID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		Phone:             r.Phone,
		Source:            source,
		Status:            status,
		Priority:          priority,
		InterestedVehicle: r.InterestedVehicle,
		Budget:            r.Budget,
		AssignedTo:        r.AssignedTo,
		Score:             r.Score,
		CreatedAt:         r.CreatedAt.UTC(),
		LastContact:       r.LastContact.UTC(),
		Notes:             r.Notes,
		Activities:        []model.Activity{},
	}
}

func toActivityRow(leadID string, a model.Activity) activityRow {
	return activityRow{
		ID:          a.ID,
		LeadID:      leadID,
		Type:        string(a.Type),
		Description: a.Description,
		OccurredAt:  a.Timestamp.UTC(),
		PerformedBy: a.PerformedBy,
	}
}

func (r activityRow) toModel() model.Activity {
	t, _ := model.ParseActivityType(r.Type)
	return model.Activity{
		ID:          r.ID,
		Type:        t,
		Description: r.Description,
		Timestamp:   r.OccurredAt.UTC(),
		PerformedBy: r.PerformedBy,
	}
}

// PostgresStore persists leads in Postgres through sqlx. The dashboard
// snapshot is not stored; it is supplied at construction.
type PostgresStore struct {
	db      *sqlx.DB
	metrics model.DashboardMetrics
}

var _ Repository = (*PostgresStore)(nil)

// OpenPostgres connects to dsn and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string, snapshot model.DashboardMetrics) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := NewPostgresStore(db, snapshot)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an open connection.
func NewPostgresStore(db *sqlx.DB, snapshot model.DashboardMetrics) *PostgresStore {
	return &PostgresStore{db: db, metrics: snapshot.Clone()}
}

// Migrate creates the tables when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts leads and their activities when the leads table is
// empty. It reports whether anything was written.
func (s *PostgresStore) SeedIfEmpty(ctx context.Context, leads []model.Lead) (bool, error) {
	if s.Count(ctx) > 0 {
		return false, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range leads {
		if _, err := tx.NamedExecContext(ctx, upsertLead, toLeadRow(l)); err != nil {
			return false, fmt.Errorf("seed lead %s: %w", l.ID, err)
		}
		for _, a := range l.Activities {
			if _, err := tx.NamedExecContext(ctx, insertActivity, toActivityRow(l.ID, a)); err != nil {
				return false, fmt.Errorf("seed activity %s: %w", a.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	metrics.UpdateLeadsTotal(len(leads))
	return true, nil
}

// LoadLeads implements Repository.
func (s *PostgresStore) LoadLeads(ctx context.Context) ([]model.Lead, error) {
	start := time.Now()
	defer observeQuery(start)

	var rows []leadRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+leadColumns+` FROM leads ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	var acts []activityRow
	if err := s.db.SelectContext(ctx, &acts,
		`SELECT id, lead_id, type, description, occurred_at, performed_by FROM lead_activities ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	leads := make([]model.Lead, len(rows))
	idx := make(map[string]int, len(rows))
	for i, r := range rows {
		leads[i] = r.toModel()
		idx[r.ID] = i
	}
	for _, a := range acts {
		if i, ok := idx[a.LeadID]; ok {
			leads[i].Activities = append(leads[i].Activities, a.toModel())
		}
	}
	return leads, nil
}

// FindByID implements Repository.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (model.Lead, error) {
	start := time.Now()
	defer observeQuery(start)

	var row leadRow
	err := s.db.GetContext(ctx, &row, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Lead{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Lead{}, fmt.Errorf("find lead %s: %w", id, err)
	}
	var acts []activityRow
	if err := s.db.SelectContext(ctx, &acts,
		`SELECT id, lead_id, type, description, occurred_at, performed_by
		 FROM lead_activities WHERE lead_id = $1 ORDER BY seq`, id); err != nil {
		return model.Lead{}, fmt.Errorf("find activities %s: %w", id, err)
	}
	l := row.toModel()
	for _, a := range acts {
		l.Activities = append(l.Activities, a.toModel())
	}
	return l, nil
}

// SaveLead implements Repository. Only lead columns are written; activities
// are added through AppendActivity.
func (s *PostgresStore) SaveLead(ctx context.Context, lead model.Lead) error {
	if strings.TrimSpace(lead.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidLead)
	}
	start := time.Now()
	defer observeUpdate(start)

	if _, err := s.db.NamedExecContext(ctx, upsertLead, toLeadRow(lead)); err != nil {
		return fmt.Errorf("save lead %s: %w", lead.ID, err)
	}
	return nil
}

// UpdateLead implements Repository. The row is locked with SELECT ... FOR
// UPDATE for the duration of fn.
func (s *PostgresStore) UpdateLead(ctx context.Context, id string, fn func(*model.Lead) error) error {
	start := time.Now()
	defer observeUpdate(start)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var row leadRow
	err = tx.GetContext(ctx, &row, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	var acts []activityRow
	if err := tx.SelectContext(ctx, &acts,
		`SELECT id, lead_id, type, description, occurred_at, performed_by
		 FROM lead_activities WHERE lead_id = $1 ORDER BY seq`, id); err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	l := row.toModel()
	for _, a := range acts {
		l.Activities = append(l.Activities, a.toModel())
	}

	if err := fn(&l); err != nil {
		return err
	}
	l.ID = id
	if _, err := tx.NamedExecContext(ctx, upsertLead, toLeadRow(l)); err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	return nil
}

// AppendActivity implements Repository.
func (s *PostgresStore) AppendActivity(ctx context.Context, leadID string, a model.Activity) error {
	start := time.Now()
	defer observeUpdate(start)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE leads SET last_contact = GREATEST(last_contact, $2) WHERE id = $1`, leadID, a.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("append activity %s: %w", leadID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, leadID)
	}
	if _, err := tx.NamedExecContext(ctx, insertActivity, toActivityRow(leadID, a)); err != nil {
		return fmt.Errorf("append activity %s: %w", leadID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append activity %s: %w", leadID, err)
	}
	return nil
}

// Metrics implements Repository.
func (s *PostgresStore) Metrics(_ context.Context) (model.DashboardMetrics, error) {
	return s.metrics.Clone(), nil
}

// Count implements Repository. Query failures count as zero.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM leads`); err != nil {
		return 0
	}
	return n
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
