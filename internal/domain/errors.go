package domain

import "errors"

// Operation failures recognized at the gateway boundary. Each one is
// recovered into an error event for the originating connection; none of
// them is fatal to the instance.
var (
	// ErrValidation marks an empty or malformed request (blank body,
	// missing room). Rejected locally, nothing is broadcast.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an edit/delete target that does not exist.
	ErrNotFound = errors.New("message not found")

	// ErrStorageUnavailable marks an unreachable message store. The
	// triggering operation fails; the instance keeps serving.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBusUnavailable marks a down pub/sub link. Writes that already
	// persisted stay persisted; only fanout is degraded.
	ErrBusUnavailable = errors.New("fanout bus unavailable")
)
