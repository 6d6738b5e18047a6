package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/backend"
	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/jwk"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidHeader is returned when the authorization header is malformed.
	ErrInvalidHeader = errors.New("invalid authorization header")

	// ErrMissingHeader is returned when the request carries no credentials.
	ErrMissingHeader = errors.New("missing authorization header")
)

// withUser authenticates the request and puts the caller in its context.
func withUser(pair jwk.Pair, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticate(r, pair)
		if err != nil {
			log.FromContext(r.Context()).Debug("authentication failed", "err", err)
			renderUnauthorized(w, r)
			return
		}

		next(w, r.WithContext(proto.WithUserContext(r.Context(), user)))
	}
}

// authenticate authenticates the user from the request.
func authenticate(r *http.Request, pair jwk.Pair) (proto.User, error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ErrInvalidHeader
	}

	claims, err := getJWTClaims(ctx, pair, parts[1])
	if err != nil {
		return nil, err
	}

	// Find the user
	sub := strings.SplitN(claims.Subject, "#", 2)
	if len(sub) != 2 {
		logger.Error("invalid jwt subject", "subject", claims.Subject)
		return nil, errors.New("invalid jwt subject")
	}

	be := backend.FromContext(ctx)
	user, err := be.User(ctx, sub[0])
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if expected := jwk.Subject(user); expected != claims.Subject {
		logger.Error("invalid jwt subject", "subject", claims.Subject, "expected", expected)
		return nil, errors.New("invalid jwt subject")
	}

	return user, nil
}

func getJWTClaims(ctx context.Context, pair jwk.Pair, bearer string) (*jwt.RegisteredClaims, error) {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("http.auth")
	token, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, errors.New("invalid signing method")
		}

		return pair.PublicKey(), nil
	},
		jwt.WithIssuer(cfg.HTTP.PublicURL),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logger.Debug("failed to parse jwt", "err", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !token.Valid || !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
