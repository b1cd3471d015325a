package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"maxbitcoins/internal/domain"
)

// EnvSecret reads the secret key from an environment variable on every
// call.
type EnvSecret struct {
	Name   string
	Getenv func(string) string
}

func (e EnvSecret) Secret() (string, error) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	v := getenv(e.Name)
	if v == "" {
		return "", fmt.Errorf("%s is not set", e.Name)
	}
	return v, nil
}

var _ domain.SecretProvider = EnvSecret{}

// UUIDGenerator issues random (v4) attempt ids.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }

var _ domain.IDGenerator = UUIDGenerator{}
