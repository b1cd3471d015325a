package identity

import (
	"io"

	"maxbitcoins/internal/crypto"
	"maxbitcoins/internal/domain"
)

// Identity is the public side of a Nostr key.
type Identity struct {
	Npub      string `json:"npub"`
	PubKeyHex string `json:"pubkey"`
}

// Generated is a freshly created key. Nsec is shown once and never stored.
type Generated struct {
	Identity
	Nsec string `json:"nsec"`
}

// Service derives and creates Nostr identities.
type Service struct {
	rand io.Reader
}

// New returns an identity service drawing key material from r, or from
// crypto/rand when r is nil.
func New(r io.Reader) *Service { return &Service{rand: r} }

// Describe decodes an nsec or hex secret and returns its public identity.
// The decoded key is wiped before returning.
func (s *Service) Describe(secret string) (Identity, error) {
	k, err := crypto.DecodeSecret(secret)
	if err != nil {
		return Identity{}, err
	}
	defer crypto.WipeSecret(&k)

	pub, err := crypto.DerivePublic(k)
	if err != nil {
		return Identity{}, err
	}
	return identityOf(pub), nil
}

// DescribeProvider is Describe for the secret supplied by p.
func (s *Service) DescribeProvider(p domain.SecretProvider) (Identity, error) {
	raw, err := p.Secret()
	if err != nil {
		return Identity{}, err
	}
	return s.Describe(raw)
}

// Generate creates a new key pair.
func (s *Service) Generate() (Generated, error) {
	kp, err := crypto.GenerateKeyPair(s.rand)
	if err != nil {
		return Generated{}, err
	}
	defer crypto.WipeSecret(&kp.Secret)
	return Generated{Identity: identityOf(kp.Public), Nsec: crypto.EncodeSecret(kp.Secret)}, nil
}

func identityOf(pub domain.PublicKey) Identity {
	return Identity{Npub: crypto.EncodePublic(pub), PubKeyHex: pub.Hex()}
}
