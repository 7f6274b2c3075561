package domain

import "errors"

var (
	// ErrInsufficientFunds is returned when a debit or payout exceeds the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrInvalidStateTransition is returned when a withdrawal is not in the expected prior state.
	ErrInvalidStateTransition = errors.New("invalid withdrawal state transition")

	// ErrDuplicateOperation is returned when an idempotency constraint rejects a replayed event.
	ErrDuplicateOperation = errors.New("duplicate operation")

	ErrNotFound = errors.New("record not found")
)

// ValidationError carries a user-facing message for malformed or rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
