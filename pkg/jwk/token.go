package jwk

import (
	"fmt"
	"time"

	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/golang-jwt/jwt/v5"
)

// Subject returns the token subject for a user.
func Subject(u proto.User) string {
	return fmt.Sprintf("%s#%d", u.Username(), u.ID())
}

// NewToken issues a signed access token for u.
func (p Pair) NewToken(u proto.User, issuer string, expiry time.Duration) (string, error) {
	if u == nil {
		return "", proto.ErrUserNotFound
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   Subject(u),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(SigningMethod, claims)
	token.Header["kid"] = p.JWK().KeyID

	return token.SignedString(p.PrivateKey()) //nolint:wrapcheck
}
