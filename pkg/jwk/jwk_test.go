package jwk

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

func TestBadNewPair(t *testing.T) {
	_, err := NewPair(nil)
	if !errors.Is(err, config.ErrNilConfig) {
		t.Errorf("NewPair(nil) => %v, want %v", err, config.ErrNilConfig)
	}
}

func TestGoodNewPair(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Auth.KeyPath = filepath.Join(t.TempDir(), "board_ed25519")
	p, err := NewPair(cfg)
	if err != nil {
		t.Fatalf("NewPair(cfg) => _, %v, want nil error", err)
	}

	set := p.JWKS()
	if len(set.Keys) != 1 {
		t.Fatalf("JWKS() has %d keys, want 1", len(set.Keys))
	}

	if k := set.Keys[0]; k.KeyID != p.JWK().KeyID || !k.IsPublic() {
		t.Errorf("JWKS() key = %+v, want public key %q", k, p.JWK().KeyID)
	}
}

func TestKeyIDIsStable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Auth.KeyPath = filepath.Join(t.TempDir(), "board_ed25519")
	p, err := NewPair(cfg)
	if err != nil {
		t.Fatal(err)
	}

	again, err := NewPair(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if p.JWK().KeyID == "" {
		t.Fatal("KeyID is empty")
	}
	if p.JWK().KeyID != again.JWK().KeyID {
		t.Errorf("KeyID = %q after reload, want %q", again.JWK().KeyID, p.JWK().KeyID)
	}

	other := config.DefaultConfig()
	other.Auth.KeyPath = filepath.Join(t.TempDir(), "other_ed25519")
	q, err := NewPair(other)
	if err != nil {
		t.Fatal(err)
	}
	if q.JWK().KeyID == p.JWK().KeyID {
		t.Errorf("distinct keys share KeyID %q", p.JWK().KeyID)
	}
}

type user struct{}

func (user) ID() int64        { return 7 }
func (user) Username() string { return "alice" }
func (user) Email() string    { return "alice@example.com" }

func TestNewToken(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Auth.KeyPath = filepath.Join(t.TempDir(), "board_ed25519")
	p, err := NewPair(cfg)
	if err != nil {
		t.Fatal(err)
	}

	s, err := p.NewToken(user{}, "http://localhost", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := jwt.ParseWithClaims(s, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return p.PublicKey(), nil
	}, jwt.WithIssuer("http://localhost"), jwt.WithValidMethods([]string{SigningMethod.Alg()}))
	if err != nil {
		t.Fatal(err)
	}

	sub, _ := token.Claims.GetSubject()
	if sub != "alice#7" {
		t.Errorf("subject = %q, want %q", sub, "alice#7")
	}
	if kid := token.Header["kid"]; kid != p.JWK().KeyID {
		t.Errorf("kid = %v, want %q", kid, p.JWK().KeyID)
	}
}
