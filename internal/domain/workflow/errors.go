package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrDuplicateInvoice       = errors.New("invoice of this type already exists for the job")
	ErrNoDepositFound         = errors.New("no deposit invoice found for the job")
)

// InvalidTransitionError names the current and attempted target states. It is
// an operator/programming contract violation, not end-customer input error.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}
