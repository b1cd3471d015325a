// Package event builds Nostr events and their content-addressed ids.
//
// The id is the SHA-256 of the canonical serialization
//
//	[0,"<pubkey hex>",<created_at>,<kind>,<tags>,"<content>"]
//
// written without whitespace. Strings escape only backslash, double quote,
// \n, \r, \t and the remaining bytes below 0x20 (as \u00XX); every other
// character, including non-ASCII text, <, > and &, is written verbatim.
// Unlike encoding/json, HTML characters and U+2028/U+2029 are not escaped.
//
// Serialization and id computation are pure functions. Sign is the only
// operation that touches key material.
package event
