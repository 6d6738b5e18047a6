package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/backend"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/gorilla/mux"
)

// HealthController registers the health check routes for the web server.
func HealthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/livez", getLiveness).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", getReadiness).Methods(http.MethodGet, http.MethodHead)
}

var (
	errNoDatabase = errors.New("no database")
	errNoBackend  = errors.New("no backend")
)

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func getLiveness(w http.ResponseWriter, r *http.Request) {
	renderStatus(http.StatusOK)(w, r)
}

func getReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := readinessResponse{Status: "ok", Checks: map[string]string{}}
	check := func(name string, err error) {
		if err != nil {
			log.FromContext(ctx).Warn("readiness check failed", "check", name, "err", err)
			res.Status = "unavailable"
			res.Checks[name] = err.Error()
			return
		}
		res.Checks[name] = "ok"
	}

	if dbx := db.FromContext(ctx); dbx == nil {
		check("database", errNoDatabase)
	} else {
		check("database", dbx.PingContext(ctx))
	}

	if backend.FromContext(ctx) == nil {
		check("backend", errNoBackend)
	} else {
		check("backend", nil)
	}

	code := http.StatusOK
	if res.Status != "ok" {
		code = http.StatusServiceUnavailable
	}

	renderJSON(w, code, res)
}
