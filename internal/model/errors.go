package model

import "errors"

// Sentinel errors returned (wrapped) by store implementations.
var (
	// ErrUnknownPlayer is returned when a player id has no standing row.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrUnavailable is returned when the store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)
