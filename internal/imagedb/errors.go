package imagedb

import "errors"

var (
	// ErrMissingID is returned when an update names no record id.
	ErrMissingID = errors.New("labeldesk: record id is required")

	// ErrNoFields is returned when an update carries no recognized
	// editable field. No write is attempted.
	ErrNoFields = errors.New("labeldesk: no updatable fields provided")
)
