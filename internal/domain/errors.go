package domain

import "errors"

// Typed failures surfaced by every core operation. Transport maps them to
// HTTP statuses; messages are stable snake_case identifiers.
var (
	ErrInvalidTransition   = errors.New("invalid_transition")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation_error")
	ErrCodeMismatch        = errors.New("code_mismatch")
	ErrCodeExpired         = errors.New("code_expired")
	ErrNotYetEligible      = errors.New("not_yet_eligible")
	ErrLedgerInconsistency = errors.New("ledger_inconsistency")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyResolved     = errors.New("already_resolved")
	ErrGatewayFailure      = errors.New("gateway_failure")
)
