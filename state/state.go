// Package state holds the client-side containers the portal views read from.
//
// Each container loads its collections through the API services, keeps a user-facing error, and
// wraps mutations so that IsMutating and Err reflect the last operation. After Close, late results
// are dropped.
package state

import (
	"context"
	"sync"

	"github.com/trezcool/portal/core/classroom"
)

// Error is the formatted failure a container keeps for display.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// formatError keeps the message of err, or uses fallback when err has none.
func formatError(err error, fallback string) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Message: msg, Cause: err}
}

type ClassLister interface {
	List(ctx context.Context) ([]classroom.ClassRoom, error)
}

// base is the loading/mutating/error bookkeeping shared by the containers.
type base struct {
	mu         sync.RWMutex
	isLoading  bool
	isMutating bool
	err        *Error
	closed     bool
	fallback   string
}

func newBase(fallback string) base {
	return base{isLoading: true, fallback: fallback}
}

func (b *base) IsLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isLoading
}

func (b *base) IsMutating() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isMutating
}

// Err returns the last failure, or nil.
func (b *base) Err() *Error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

func (b *base) ResetError() {
	b.update(func() { b.err = nil })
}

// Close detaches the container: results arriving afterwards are dropped.
func (b *base) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// update runs fn under the write lock, unless the container is closed.
func (b *base) update(fn func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	fn()
	return true
}

// load runs fetch with IsLoading set; a failure is stored and returned.
func (b *base) load(fetch func() error) error {
	b.update(func() { b.isLoading = true })
	err := fetch()

	var formatted *Error
	if err != nil {
		formatted = formatError(err, b.fallback)
	}
	b.update(func() {
		b.isLoading = false
		b.err = formatted
	})
	if formatted != nil {
		return formatted
	}
	return nil
}

// refresh runs fetch; a failure is stored and returned.
func (b *base) refresh(fetch func() error) error {
	if err := fetch(); err != nil {
		formatted := formatError(err, b.fallback)
		b.update(func() { b.err = formatted })
		return formatted
	}
	b.update(func() { b.err = nil })
	return nil
}

// mutate runs op with IsMutating set. On success the error is cleared, on failure it is stored and returned.
func (b *base) mutate(op func() error) error {
	b.update(func() { b.isMutating = true })
	err := op()

	var formatted *Error
	if err != nil {
		formatted = formatError(err, b.fallback)
	}
	b.update(func() {
		b.isMutating = false
		b.err = formatted
	})
	if formatted != nil {
		return formatted
	}
	return nil
}
