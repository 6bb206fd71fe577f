package services

import "errors"

// Sentinel errors for the order lifecycle. Handlers translate these into
// short user-facing messages; none of them is fatal and the persisted
// state is left intact, so the caller may retry the same action.
var (
	// ErrOrderNotFound reports an unknown order id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderFinalized reports a transition attempted on an order whose
	// status is terminal. Retrying never produces a different outcome.
	ErrOrderFinalized = errors.New("order already finalized")
	// ErrUnauthorized reports a caller acting on an order they do not own.
	ErrUnauthorized = errors.New("caller is not allowed to act on this order")
	// ErrMalformedRequest reports an unparseable or unknown transition payload.
	ErrMalformedRequest = errors.New("malformed transition request")
	// ErrInvalidTransition reports a transition that is not legal from the
	// order's current (non-terminal) status.
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	// ErrInventoryUpdate reports a persistence failure while debiting or
	// crediting stock. Status and marker are left unchanged.
	ErrInventoryUpdate = errors.New("inventory update failed")
)
