// Package common defines shared sentinel errors used across the agent's
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session lifecycle errors.
	ErrAuth      = errors.New("authentication failed")
	ErrSession   = errors.New("sign-out failed")
	ErrNoSession = errors.New("no active session")

	// Cycle-level errors. A failed cycle is retried over the same window,
	// so neither of these advances the watermark.
	ErrRemote = errors.New("remote call failed")
	ErrSink   = errors.New("sink write failed")
)
