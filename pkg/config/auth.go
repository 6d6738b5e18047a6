package config

import (
	"errors"

	"github.com/charmbracelet/keygen"
)

// ErrEmptyKeyPath is returned when the token signing key path is empty.
var ErrEmptyKeyPath = errors.New("empty key path")

// KeyPair returns the token signing key pair. The key is generated on first
// use.
func (c AuthConfig) KeyPair() (*keygen.SSHKeyPair, error) {
	if c.KeyPath == "" {
		return nil, ErrEmptyKeyPath
	}

	return keygen.New(c.KeyPath, keygen.WithKeyType(keygen.Ed25519), keygen.WithWrite())
}

// KeyPair returns the server's token signing key pair.
func KeyPair(cfg *Config) (*keygen.SSHKeyPair, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	return cfg.Auth.KeyPair()
}
