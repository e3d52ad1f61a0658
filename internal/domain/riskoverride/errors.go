package riskoverride

import "errors"

var (
	// ErrBadCredential is returned when the presented operator secret does
	// not verify against the configured hash.
	ErrBadCredential = errors.New("riskoverride: invalid operator credential")
	// ErrNoJustification is returned when justification is blank.
	ErrNoJustification = errors.New("riskoverride: justification is required")
)
