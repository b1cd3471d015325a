package domain

import (
	"encoding/hex"
	"fmt"
)

// ------------- secp256k1 -------------

// SecretKey is a 32-byte secp256k1 secret scalar.
//
// It formats as a redacted placeholder so that passing it to a logger or
// fmt verb never prints key material.
type SecretKey [32]byte

// PublicKey is a 32-byte BIP-340 x-only public key.
type PublicKey [32]byte

func (k SecretKey) Slice() []byte { return k[:] }
func (k PublicKey) Slice() []byte { return k[:] }

func (SecretKey) String() string   { return "SecretKey(redacted)" }
func (SecretKey) GoString() string { return "SecretKey(redacted)" }

// Hex returns the lowercase hex form used on the wire.
func (k PublicKey) Hex() string { return hex.EncodeToString(k[:]) }

func (k PublicKey) String() string { return k.Hex() }

// ParsePublicKeyHex decodes a 64-character hex public key.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	var out PublicKey
	if len(s) != 2*len(out) {
		return out, fmt.Errorf("public key: want %d hex chars, got %d", 2*len(out), len(s))
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return PublicKey{}, fmt.Errorf("public key: %w", err)
	}
	return out, nil
}

// KeyPair holds a secret scalar and its x-only public key. It is never
// serialized.
type KeyPair struct {
	Secret SecretKey
	Public PublicKey
}
