// Package jwk manages the key pair used to sign and verify access tokens.
package jwk

import (
	"crypto"
	"encoding/base64"

	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod is a JSON Web Token signing method. It uses Ed25519 keys to
// sign and verify tokens.
var SigningMethod = &jwt.SigningMethodEd25519{}

// Pair is a JSON Web Key pair.
type Pair struct {
	privateKey crypto.PrivateKey
	publicKey  crypto.PublicKey
	jwk        jose.JSONWebKey
}

// PrivateKey returns the private key.
func (p Pair) PrivateKey() crypto.PrivateKey {
	return p.privateKey
}

// PublicKey returns the public key.
func (p Pair) PublicKey() crypto.PublicKey {
	return p.publicKey
}

// JWK returns the JSON Web Key.
func (p Pair) JWK() jose.JSONWebKey {
	return p.jwk
}

// JWKS returns the public key set served to token verifiers.
func (p Pair) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{p.jwk.Public()}}
}

// NewPair loads or creates the token signing key pair.
func NewPair(cfg *config.Config) (Pair, error) {
	kp, err := config.KeyPair(cfg)
	if err != nil {
		return Pair{}, err
	}

	// The key ID is the RFC 7638 thumbprint of the public key so it stays
	// the same across restarts.
	jwk := jose.JSONWebKey{
		Key:       kp.CryptoPublicKey(),
		Algorithm: SigningMethod.Alg(),
		Use:       "sig",
	}
	thumb, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return Pair{}, err
	}
	jwk.KeyID = base64.RawURLEncoding.EncodeToString(thumb)

	return Pair{
		privateKey: kp.PrivateKey(),
		publicKey:  kp.CryptoPublicKey(),
		jwk:        jwk,
	}, nil
}
