package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"maxbitcoins/internal/domain"
)

// Bech32 prefixes for Nostr key material (NIP-19).
const (
	SecretPrefix = "nsec"
	PublicPrefix = "npub"
)

// DecodeSecret parses an nsec bech32 string or a 64-character hex string.
// Surrounding whitespace is ignored.
func DecodeSecret(s string) (domain.SecretKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.SecretKey{}, fmt.Errorf("%w: empty secret key", domain.ErrDecode)
	}
	if len(s) == 2*len(domain.SecretKey{}) {
		var k domain.SecretKey
		if _, err := hex.Decode(k[:], []byte(s)); err != nil {
			Wipe(k[:])
			return domain.SecretKey{}, fmt.Errorf("%w: secret key is not valid hex", domain.ErrDecode)
		}
		return k, nil
	}
	raw, err := decodeKey(SecretPrefix, s)
	if err != nil {
		return domain.SecretKey{}, err
	}
	return domain.SecretKey(raw), nil
}

// EncodeSecret returns the nsec form of k.
func EncodeSecret(k domain.SecretKey) string { return mustEncodeKey(SecretPrefix, k[:]) }

// DecodePublic parses an npub bech32 string or a 64-character hex string.
func DecodePublic(s string) (domain.PublicKey, error) {
	s = strings.TrimSpace(s)
	if len(s) == 2*len(domain.PublicKey{}) {
		pk, err := domain.ParsePublicKeyHex(s)
		if err != nil {
			return domain.PublicKey{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		return pk, nil
	}
	raw, err := decodeKey(PublicPrefix, s)
	if err != nil {
		return domain.PublicKey{}, err
	}
	return domain.PublicKey(raw), nil
}

// EncodePublic returns the npub form of k.
func EncodePublic(k domain.PublicKey) string { return mustEncodeKey(PublicPrefix, k[:]) }

// SecretKeyFromBytes validates raw as a secp256k1 secret scalar.
func SecretKeyFromBytes(raw []byte) (domain.SecretKey, error) {
	var k domain.SecretKey
	if len(raw) != len(k) {
		return k, fmt.Errorf("%w: secret key must be %d bytes, got %d", domain.ErrSigning, len(k), len(raw))
	}
	copy(k[:], raw)
	if err := checkScalar(k); err != nil {
		Wipe(k[:])
		return domain.SecretKey{}, err
	}
	return k, nil
}

// decodeKey never passes bech32 errors through: their messages quote the
// offending input.
func decodeKey(prefix, s string) ([32]byte, error) {
	var out [32]byte
	hrp, data, err := bech32.Decode(strings.ToLower(s))
	if err != nil {
		return out, fmt.Errorf("%w: invalid bech32", domain.ErrDecode)
	}
	defer Wipe(data)
	if hrp != prefix {
		return out, fmt.Errorf("%w: expected %q prefix", domain.ErrDecode, prefix)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	defer Wipe(raw)
	if err != nil {
		return out, fmt.Errorf("%w: invalid bech32 padding", domain.ErrDecode)
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("%w: decoded key is %d bytes, want %d", domain.ErrDecode, len(raw), len(out))
	}
	copy(out[:], raw)
	return out, nil
}

func mustEncodeKey(prefix string, key []byte) string {
	data, err := bech32.ConvertBits(key, 8, 5, true)
	if err != nil {
		panic(fmt.Errorf("%s: regroup: %w", prefix, err))
	}
	s, err := bech32.Encode(prefix, data)
	if err != nil {
		panic(fmt.Errorf("%s: encode: %w", prefix, err))
	}
	return s
}
