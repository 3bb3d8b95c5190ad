// Package storage defines the contract both record stores expose to the sync
// engine, together with the error taxonomy the adapters translate into.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/progitman/progitman/internal/models"
)

// Store is the uniform record-store contract implemented by the local and
// remote adapters. Every call either fully succeeds or fails; there is no
// partial application.
//
// Put returns the stored copy, which may differ from the input: the remote
// store assigns ids to new records and stamps a last-modified timestamp.
type Store interface {
	Put(ctx context.Context, p *models.Profile) (*models.Profile, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
	Delete(ctx context.Context, id string) error
}

// Kind classifies a store failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnreachable
	KindUnauthorized
	KindQuotaExceeded
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindUnauthorized:
		return "unauthorized"
	case KindQuotaExceeded:
		return "quota exceeded"
	default:
		return "unknown"
	}
}

// Error is a classified store failure. Op names the failed operation
// ("local.put", "remote.list", ...).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err into a classified store Error.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the failure kind from err, returning KindUnknown when err
// carries no classification.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
