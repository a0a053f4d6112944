package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrFetch              = errors.New("document fetch failed")
	ErrExtraction         = errors.New("pdf extraction failed")
	ErrEmptyText          = errors.New("no extractable text")
	ErrMalformedReply     = errors.New("malformed model reply")
	ErrWhitepaperNotFound = errors.New("whitepaper not found")
	ErrTemporary          = errors.New("temporary failure")
)

// UserError carries a message rendered verbatim in the UI banner while still
// matching its semantic kind through errors.Is.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Kind }

// NewUserError builds a kind-tagged error with user-facing text.
func NewUserError(kind error, message string) error {
	return &UserError{Kind: kind, Message: message}
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
