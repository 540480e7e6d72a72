// Package sqlpc implements persistence.Context as a unit of work over
// database/sql. Writes are queued and only reach the database when the unit
// of work commits; reads go straight to the database.
package sqlpc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/flowpc/internal/persistence"
)

// ErrClosed is returned by operations on a closed unit of work.
var ErrClosed = errors.New("unit of work is closed")

// Factory creates units of work against DB.
type Factory struct {
	DB *sql.DB
}

var _ persistence.Factory = (*Factory)(nil)

// NewFactory creates a factory for db.
func NewFactory(db *sql.DB) *Factory {
	return &Factory{DB: db}
}

// Create opens a new unit of work.
func (f *Factory) Create(ctx context.Context) (persistence.Context, error) {
	if f.DB == nil {
		return nil, errors.New("sqlpc: factory has no database")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &UnitOfWork{db: f.DB}, nil
}

type statement struct {
	query string
	args  []any
}

// UnitOfWork queues write statements until Commit.
type UnitOfWork struct {
	mu      sync.Mutex
	db      *sql.DB
	pending []statement
	closed  bool
	commits int
}

var _ persistence.Context = (*UnitOfWork)(nil)

// Exec queues a write statement.
func (u *UnitOfWork) Exec(query string, args ...any) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	u.pending = append(u.pending, statement{query: query, args: args})
	return nil
}

// QueryRow reads directly from the database. Queued writes are not visible.
func (u *UnitOfWork) QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return u.db.QueryRowContext(ctx, query, args...), nil
}

// Pending returns the number of queued statements.
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

// Commits returns how many times Commit succeeded.
func (u *UnitOfWork) Commits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.commits
}

// Closed reports whether Close was called.
func (u *UnitOfWork) Closed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.closed
}

// Commit runs every queued statement in one transaction. On failure the
// transaction is rolled back and the queue is kept.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for i, stmt := range u.pending {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			rbErr := tx.Rollback()
			return errors.Join(fmt.Errorf("statement %d %q: %w", i, stmt.query, err), rbErr)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	u.pending = nil
	u.commits++
	return nil
}

// Close discards queued work. Closing twice is an error.
func (u *UnitOfWork) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	u.closed = true
	u.pending = nil
	return nil
}
