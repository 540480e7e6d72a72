package persistence

import (
	"context"
	"errors"
)

var (
	// ErrCreateFailed wraps errors returned by Factory.Create.
	ErrCreateFailed = errors.New("persistence context creation failed")
	// ErrCommitFailed wraps errors returned by Context.Commit.
	ErrCommitFailed = errors.New("persistence context commit failed")
	// ErrCloseFailed wraps errors returned by Context.Close.
	ErrCloseFailed = errors.New("persistence context close failed")
	// ErrNotContext is returned when a session scope holds something under the
	// persistence context key that is not a Context.
	ErrNotContext = errors.New("scope value is not a persistence context")
)

// Context is a unit of work tracking changes until they are committed.
type Context interface {
	Commit(ctx context.Context) error
	Close() error
}

// Factory creates persistence contexts.
type Factory interface {
	Create(ctx context.Context) (Context, error)
}
