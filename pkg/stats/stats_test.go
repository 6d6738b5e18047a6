package stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/test"
	"github.com/matryer/is"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, typ event.Type) float64 {
	t.Helper()
	var m dto.Metric
	if err := boardEventCounter.WithLabelValues(typ.String()).Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func TestEventCounter(t *testing.T) {
	is := is.New(t)
	before := counterValue(t, event.CardMoved)

	var h EventCounter
	is.NoErr(h.Handle(context.Background(), event.Event{Type: event.CardMoved}))
	is.NoErr(h.Handle(context.Background(), event.Event{Type: event.CardMoved}))

	is.Equal(counterValue(t, event.CardMoved), before+2)
}

func TestNewStatsServer(t *testing.T) {
	is := is.New(t)

	_, err := NewStatsServer(context.Background())
	is.True(errors.Is(err, config.ErrNilConfig))

	ctx := config.WithContext(context.Background(), config.DefaultConfig())
	s, err := NewStatsServer(ctx)
	is.NoErr(err)
	is.NoErr(s.Close())
}

func TestMetricsIncludeDBStats(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	dbx, _ := test.OpenDB(ctx, t)
	ctx = config.WithContext(ctx, config.DefaultConfig())
	ctx = db.WithContext(ctx, dbx)

	s, err := NewStatsServer(ctx)
	is.NoErr(err)
	defer s.Close() // nolint: errcheck

	is.NoErr(EventCounter{}.Handle(ctx, event.Event{Type: event.BoardCreated}))

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	is.Equal(rec.Code, http.StatusOK)

	body := rec.Body.String()
	is.True(strings.Contains(body, `go_sql_open_connections{db_name="soft_board"}`))
	is.True(strings.Contains(body, `soft_board_board_events_total{type="board_created"}`))
}
