package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/proto"
)

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

func renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound)})
}

func renderMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
}

func renderUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="soft-board"`)
	renderJSON(w, http.StatusUnauthorized, errorResponse{Error: http.StatusText(http.StatusUnauthorized)})
}

func renderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if statusCode == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusCode maps an error kind to its HTTP status.
func statusCode(err error) int {
	switch proto.KindOf(err) {
	case proto.KindValidation:
		return http.StatusBadRequest
	case proto.KindNotFound:
		return http.StatusNotFound
	case proto.KindUnauthorized:
		return http.StatusForbidden
	case proto.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	msg := err.Error()
	var perr *proto.Error
	if code == http.StatusInternalServerError || !errors.As(err, &perr) {
		log.FromContext(r.Context()).Error("request failed", "err", err)
		code, msg = http.StatusInternalServerError, "internal error"
	}

	renderJSON(w, code, errorResponse{Error: msg})
}
