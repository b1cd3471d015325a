package event

import (
	"encoding/hex"
	"errors"
	"fmt"

	"maxbitcoins/internal/crypto"
	"maxbitcoins/internal/domain"
)

// ErrPubKeyMismatch is returned by Sign when the secret does not belong to
// the event's author.
var ErrPubKeyMismatch = errors.New("secret key does not match event pubkey")

// Build assembles an unsigned event and computes its id.
//
// A nil tags slice is normalized to an empty one so that the event encodes
// "tags":[] on the wire.
func Build(pubkey domain.PublicKey, content string, createdAt int64, kind int, tags [][]string) (domain.Event, error) {
	if tags == nil {
		tags = [][]string{}
	}
	hexKey := pubkey.Hex()
	id, err := ComputeID(hexKey, createdAt, kind, tags, content)
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		ID:        hex.EncodeToString(id[:]),
		PubKey:    hexKey,
		CreatedAt: createdAt,
		Kind:      kind,
		Tags:      tags,
		Content:   content,
	}, nil
}

// BuildTextNote is Build for a kind 1 note without tags.
func BuildTextNote(pubkey domain.PublicKey, content string, createdAt int64) (domain.Event, error) {
	return Build(pubkey, content, createdAt, domain.KindTextNote, nil)
}

// Sign fills ev.Sig using signer. The id is recomputed first, so an event
// edited after Build is never signed under a stale id.
func Sign(ev domain.Event, signer domain.Signer, secret domain.SecretKey) (domain.Event, error) {
	pub, err := crypto.DerivePublic(secret)
	if err != nil {
		return domain.Event{}, err
	}
	if pub.Hex() != ev.PubKey {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrSigning, ErrPubKeyMismatch)
	}
	id, err := ComputeID(ev.PubKey, ev.CreatedAt, ev.Kind, ev.Tags, ev.Content)
	if err != nil {
		return domain.Event{}, err
	}
	sig, err := signer.Sign(id, secret)
	if err != nil {
		return domain.Event{}, err
	}
	ev.ID = hex.EncodeToString(id[:])
	ev.Sig = hex.EncodeToString(sig[:])
	return ev, nil
}

// Verify checks both the id and the signature of a signed event.
func Verify(ev domain.Event) error {
	if err := CheckID(ev); err != nil {
		return err
	}
	pub, err := domain.ParsePublicKeyHex(ev.PubKey)
	if err != nil {
		return err
	}
	var id [32]byte
	if _, err := hex.Decode(id[:], []byte(ev.ID)); err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	var sig [64]byte
	if len(ev.Sig) != 2*len(sig) {
		return fmt.Errorf("event sig: want %d hex chars, got %d", 2*len(sig), len(ev.Sig))
	}
	if _, err := hex.Decode(sig[:], []byte(ev.Sig)); err != nil {
		return fmt.Errorf("event sig: %w", err)
	}
	if !crypto.Verify(sig, id, pub) {
		return errors.New("event signature is invalid")
	}
	return nil
}
