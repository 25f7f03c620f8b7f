package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrNoSession = errors.New("no active session")

	// Action errors
	ErrNotConfirmed = errors.New("action not confirmed")
)
