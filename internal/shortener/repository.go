package shortener

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no mapping exists for a code.
	ErrNotFound = errors.New("url not found")
	// ErrCodeTaken is returned by Save when the code is already stored.
	ErrCodeTaken = errors.New("short code already exists")
	// ErrUnavailable is returned while the backing store has no live connection.
	ErrUnavailable = errors.New("store not connected")
)

// Repository persists and retrieves mappings.
type Repository interface {
	// Save stores a new mapping. It returns ErrCodeTaken if the code is in use.
	Save(ctx context.Context, mapping *Mapping) error
	// GetByCode returns ErrNotFound if no mapping exists for code.
	GetByCode(ctx context.Context, code Code) (*Mapping, error)
}

// StoreError wraps a connectivity or backend failure of a Repository.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a failure of operation op.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err carries a StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError

	return errors.As(err, &storeErr)
}
