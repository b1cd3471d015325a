package domain

// RelayOutcome records what one relay did with one publish attempt.
type RelayOutcome struct {
	Relay    string `json:"relay"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
	// Err is nil only when Accepted is true. It wraps one of
	// ErrRelayTimeout, ErrRelayRejected or ErrRelayConnect.
	Err error `json:"-"`
}

// PublishResult aggregates all relay outcomes of a publish attempt.
//
// Success is true iff at least one outcome is Accepted.
type PublishResult struct {
	Success  bool           `json:"success"`
	Outcomes []RelayOutcome `json:"outcomes"`
}
