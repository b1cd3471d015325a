package crypto

import (
	"crypto/subtle"

	"maxbitcoins/internal/domain"
)

// Wipe overwrites b with zeros in a constant-time friendly way.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

// WipeSecret zeroes k in place.
func WipeSecret(k *domain.SecretKey) {
	if k == nil {
		return
	}
	Wipe(k[:])
}
