package db

import (
	"github.com/google/uuid"

	"hanabi/internal/errs"
)

// NewID generates a store identifier. Identifiers are globally unique and
// immutable once assigned.
func NewID() string {
	return uuid.NewString()
}

// CheckID reports whether id is a syntactically valid store identifier.
// A malformed id fails with the same NotFound the caller would get for an
// absent document, so the two cases are indistinguishable to consumers.
func CheckID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &errs.NotFound{Kind: kind}
	}
	return nil
}
