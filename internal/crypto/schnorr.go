package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"maxbitcoins/internal/domain"
)

// Schnorr signs event ids with BIP-340 over secp256k1.
//
// Every signature draws 32 bytes of fresh auxiliary randomness that feeds the
// BIP-340 nonce derivation, so two different messages never share a nonce.
type Schnorr struct {
	// Rand supplies auxiliary randomness. Defaults to crypto/rand.Reader.
	Rand io.Reader
}

var _ domain.Signer = Schnorr{}

// Sign returns the 64-byte BIP-340 signature of id under secret.
func (s Schnorr) Sign(id [32]byte, secret domain.SecretKey) ([64]byte, error) {
	r := s.Rand
	if r == nil {
		r = rand.Reader
	}
	var aux [32]byte
	if _, err := io.ReadFull(r, aux[:]); err != nil {
		return [64]byte{}, fmt.Errorf("%w: auxiliary randomness: %v", domain.ErrSigning, err)
	}
	return signWithAux(id, secret, aux)
}

func signWithAux(id [32]byte, secret domain.SecretKey, aux [32]byte) ([64]byte, error) {
	var out [64]byte
	priv, err := privateKey(secret)
	if err != nil {
		return out, err
	}
	defer priv.Zero()

	sig, err := schnorr.Sign(priv, id[:], schnorr.CustomNonce(aux))
	if err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}
	copy(out[:], sig.Serialize())
	return out, nil
}

// Verify reports whether sig is a valid BIP-340 signature of id under pub.
func Verify(sig [64]byte, id [32]byte, pub domain.PublicKey) bool {
	pk, err := schnorr.ParsePubKey(pub[:])
	if err != nil {
		return false
	}
	parsed, err := schnorr.ParseSignature(sig[:])
	if err != nil {
		return false
	}
	return parsed.Verify(id[:], pk)
}

// DerivePublic returns the x-only public key for secret.
func DerivePublic(secret domain.SecretKey) (domain.PublicKey, error) {
	var out domain.PublicKey
	priv, err := privateKey(secret)
	if err != nil {
		return out, err
	}
	defer priv.Zero()
	copy(out[:], schnorr.SerializePubKey(priv.PubKey()))
	return out, nil
}

// DeriveKeyPair returns secret together with its public key.
func DeriveKeyPair(secret domain.SecretKey) (domain.KeyPair, error) {
	pub, err := DerivePublic(secret)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{Secret: secret, Public: pub}, nil
}

// checkScalar rejects zero and values >= the curve order; btcec would
// otherwise reduce them silently.
func checkScalar(secret domain.SecretKey) error {
	var s btcec.ModNScalar
	overflow := s.SetByteSlice(secret[:])
	zero := s.IsZero()
	s.Zero()
	if overflow || zero {
		return fmt.Errorf("%w: secret key out of range", domain.ErrSigning)
	}
	return nil
}

func privateKey(secret domain.SecretKey) (*btcec.PrivateKey, error) {
	if err := checkScalar(secret); err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(secret[:])
	return priv, nil
}

// GenerateKeyPair draws a fresh secret from r (crypto/rand.Reader when nil)
// and derives its public key.
func GenerateKeyPair(r io.Reader) (domain.KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}
	var raw [32]byte
	defer Wipe(raw[:])
	// Out-of-range draws are retried a bounded number of times.
	for range 8 {
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return domain.KeyPair{}, fmt.Errorf("%w: key randomness: %v", domain.ErrSigning, err)
		}
		k, err := SecretKeyFromBytes(raw[:])
		if err != nil {
			continue
		}
		return DeriveKeyPair(k)
	}
	return domain.KeyPair{}, fmt.Errorf("%w: no valid key after repeated draws", domain.ErrSigning)
}
