// Package relay publishes signed events to Nostr relays over websockets.
//
// A Publisher opens one connection per relay, sends a single
// ["EVENT", event] frame and waits for the matching ["OK", id, accepted,
// message] or a ["NOTICE", message]. Relays are contacted concurrently, so a
// slow or unreachable relay never delays the others. Each relay is bounded
// by a per-relay timeout and the whole call by an overall timeout.
//
// Publish never fails as a whole. Every relay contributes a
// domain.RelayOutcome whose Err wraps one of:
//   - domain.ErrRelayTimeout: no acknowledgement in time.
//   - domain.ErrRelayRejected: OK with accepted=false, or a NOTICE.
//   - domain.ErrRelayConnect: dial, handshake or transport failure.
//
// The attempt succeeds iff at least one relay accepted the event.
package relay
