package domain

// KindTextNote is the only event kind this engine publishes.
const KindTextNote = 1

// Event is a Nostr event as sent on the wire.
//
// ID, PubKey and Sig are lowercase hex. ID must equal the SHA-256 of the
// canonical serialization of the other fields; change any field and both ID
// and Sig have to be recomputed.
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}
