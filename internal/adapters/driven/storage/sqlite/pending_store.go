package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

// timeFormat is fixed width so stored timestamps compare lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// pendingStore implements driven.PendingStore.
type pendingStore struct {
	store *Store
}

var _ driven.PendingStore = (*pendingStore)(nil)

// Save persists a pending chain. Creates or updates based on ID.
func (s *pendingStore) Save(ctx context.Context, p *domain.PendingInvocation) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO pending_invocations (id, profile, input, continuation, attempt, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			profile = excluded.profile,
			input = excluded.input,
			continuation = excluded.continuation,
			attempt = excluded.attempt,
			due_at = excluded.due_at
	`, p.ID, p.Profile, p.Input, p.Continuation, p.Attempt,
		formatTime(p.DueAt), formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving pending invocation: %w", err)
	}
	return nil
}

// Get retrieves a pending chain by ID.
// Returns nil and no error if the chain does not exist.
func (s *pendingStore) Get(ctx context.Context, id string) (*domain.PendingInvocation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, profile, input, continuation, attempt, due_at, created_at
		FROM pending_invocations WHERE id = ?
	`, id)

	p, err := scanPending(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all pending chains ordered by due time.
func (s *pendingStore) List(ctx context.Context) ([]domain.PendingInvocation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, profile, input, continuation, attempt, due_at, created_at
		FROM pending_invocations
		ORDER BY due_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pending invocations: %w", err)
	}
	return collectPending(rows)
}

// ListDue returns up to limit chains due at now, ordered by due time.
func (s *pendingStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingInvocation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, profile, input, continuation, attempt, due_at, created_at
		FROM pending_invocations
		WHERE due_at <= ?
		ORDER BY due_at, id
		LIMIT ?
	`, formatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("querying due invocations: %w", err)
	}
	return collectPending(rows)
}

// Delete removes a pending chain.
func (s *pendingStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM pending_invocations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting pending invocation: %w", err)
	}
	return nil
}

// RecordOutcome logs one call of a chain.
func (s *pendingStore) RecordOutcome(ctx context.Context, o *domain.InvocationOutcome) error {
	if o == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO invocation_outcomes (chain_id, profile, attempt, kind, category, message, empty, body, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ChainID, o.Profile, o.Attempt, o.Kind.String(),
		nullString(string(o.Category)), nullString(o.Message),
		boolToInt(o.Empty), nullString(o.Body),
		formatTime(o.StartedAt), formatTime(o.EndedAt))
	if err != nil {
		return fmt.Errorf("recording invocation outcome: %w", err)
	}
	return nil
}

// History returns recent outcomes for a chain, most recent first.
func (s *pendingStore) History(ctx context.Context, chainID string, limit int) ([]domain.InvocationOutcome, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT chain_id, profile, attempt, kind, category, message, empty, body, started_at, ended_at
		FROM invocation_outcomes
		WHERE chain_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, chainID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying invocation history: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.InvocationOutcome //nolint:prealloc // size unknown from query
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invocation history: %w", err)
	}

	return outcomes, nil
}

// PruneHistory keeps the most recent 'keep' outcomes per chain.
func (s *pendingStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM invocation_outcomes
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY chain_id ORDER BY started_at DESC, id DESC) as rn
				FROM invocation_outcomes
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning invocation history: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

type scanner interface {
	Scan(dest ...any) error
}

func scanPending(row scanner) (*domain.PendingInvocation, error) {
	var p domain.PendingInvocation
	var dueAt, createdAt string

	if err := row.Scan(&p.ID, &p.Profile, &p.Input, &p.Continuation,
		&p.Attempt, &dueAt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning pending invocation: %w", err)
	}

	p.DueAt = parseTime(dueAt)
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func collectPending(rows *sql.Rows) ([]domain.PendingInvocation, error) {
	defer rows.Close()

	var out []domain.PendingInvocation //nolint:prealloc // size unknown from query
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending invocations: %w", err)
	}
	return out, nil
}

func scanOutcome(rows *sql.Rows) (*domain.InvocationOutcome, error) {
	var o domain.InvocationOutcome
	var kind, startedAt, endedAt string
	var category, message, body sql.NullString
	var empty int

	if err := rows.Scan(&o.ChainID, &o.Profile, &o.Attempt, &kind,
		&category, &message, &empty, &body, &startedAt, &endedAt); err != nil {
		return nil, fmt.Errorf("scanning invocation outcome: %w", err)
	}

	k, err := domain.ParseResultKind(kind)
	if err != nil {
		return nil, fmt.Errorf("scanning invocation outcome: %w", err)
	}
	o.Kind = k
	o.Category = domain.ErrorCategory(category.String)
	o.Message = message.String
	o.Body = body.String
	o.Empty = empty == 1
	o.StartedAt = parseTime(startedAt)
	o.EndedAt = parseTime(endedAt)

	return &o, nil
}

// formatTime formats t in UTC with a fixed width.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// parseTime parses a stored timestamp. Returns zero time on error.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
