package domain

import "errors"

// Error taxonomy shared by every stage of a publish attempt. Callers wrap
// these with fmt.Errorf("%w") and match with errors.Is.
var (
	// ErrDecode indicates malformed key material.
	ErrDecode = errors.New("decode error")
	// ErrSerialization indicates an event that cannot be canonically serialized.
	ErrSerialization = errors.New("serialization error")
	// ErrSigning indicates an invalid secret key or signer failure.
	ErrSigning = errors.New("signing error")

	ErrRelayTimeout  = errors.New("relay timeout")
	ErrRelayRejected = errors.New("relay rejected event")
	ErrRelayConnect  = errors.New("relay connect error")
	ErrNoRelays      = errors.New("no relays configured")

	ErrBudgetExceeded = errors.New("posting budget exceeded")
	ErrDisabled       = errors.New("action disabled")
	// ErrCircuitOpen indicates too many consecutive failures for an action.
	ErrCircuitOpen   = errors.New("circuit breaker open")
	ErrUnknownAction = errors.New("unknown action type")

	// ErrNoContent is returned when the content source produced nothing.
	ErrNoContent = errors.New("no content to publish")
)
