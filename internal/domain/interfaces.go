package domain

import (
	"context"
	"time"
)

// Signer produces BIP-340 Schnorr signatures over 32-byte event ids.
type Signer interface {
	Sign(id [32]byte, secret SecretKey) ([64]byte, error)
}

// Publisher delivers a signed event to a set of relays.
//
// Publish never returns an error: every per-relay failure is reported in the
// matching RelayOutcome.
type Publisher interface {
	Publish(ctx context.Context, ev Event, relays []string) PublishResult
}

// StateStore persists one PostingState per action type.
type StateStore interface {
	LoadState(action string) (PostingState, bool, error)
	SaveState(action string, st PostingState) error
}

// PostingBudget gates actions by quota and consecutive failures.
type PostingBudget interface {
	Check(action string) error
	RecordOutcome(action string, success bool) error
}

// ContentSource supplies the text to publish. An empty result with a nil
// error is possible and means "nothing to say".
type ContentSource interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces unique identifiers for publish attempts.
type IDGenerator interface {
	New() string
}

// SecretProvider yields the encoded secret key (nsec or hex) for one
// signing operation. Implementations must not cache decoded key bytes.
type SecretProvider interface {
	Secret() (string, error)
}
