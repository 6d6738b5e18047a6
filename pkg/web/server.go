package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/jwk"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter returns a new HTTP router.
func NewRouter(ctx context.Context) (http.Handler, error) {
	logger := log.FromContext(ctx).WithPrefix("http")
	pair, err := jwk.NewPair(config.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()

	// Health routes
	HealthController(ctx, router)

	// Token verification keys
	JWKSController(ctx, router, pair)

	// Board routes
	BoardController(ctx, router, pair)

	router.NotFoundHandler = http.HandlerFunc(renderNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(renderMethodNotAllowed)

	// Context handler
	// Adds context to the request
	h := NewContextHandler(ctx)(router)
	h = NewLoggingMiddleware(h, logger)
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler()(h)

	return h, nil
}

// JWKSController registers the route serving the token verification keys.
func JWKSController(_ context.Context, r *mux.Router, pair jwk.Pair) {
	r.HandleFunc("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		renderJSON(w, http.StatusOK, pair.JWKS())
	}).Methods(http.MethodGet)
}
