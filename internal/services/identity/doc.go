// Package identity derives the public identity of a Nostr secret key and
// generates new keys.
//
// Secrets are decoded only for the duration of a call and wiped afterwards;
// nothing is persisted.
package identity
