package stats

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var boardEventCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "soft_board",
	Subsystem: "board",
	Name:      "events_total",
	Help:      "The total number of committed board events",
}, []string{"type"})

// EventCounter is an event hook that counts committed events by type.
type EventCounter struct{}

var _ event.Hook = EventCounter{}

// Handle implements event.Hook.
func (EventCounter) Handle(_ context.Context, e event.Event) error {
	boardEventCounter.WithLabelValues(e.Type.String()).Inc()
	return nil
}
