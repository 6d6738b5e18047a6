package jobs

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/backend"
	"github.com/charmbracelet/soft-board/pkg/config"
)

func init() {
	Register("prune-notifications", pruneNotifications{})
}

type pruneNotifications struct{}

var _ Runner = pruneNotifications{}

// Spec implements Runner.
func (pruneNotifications) Spec(ctx context.Context) string {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return ""
	}

	return cfg.Jobs.NotificationPrune
}

// Func implements Runner. It deletes read notifications older than the
// configured retention.
func (pruneNotifications) Func(ctx context.Context) func() {
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.prune-notifications")
	return func() {
		before := time.Now().Add(-cfg.Jobs.NotificationRetention)
		n, err := be.PruneNotifications(ctx, before)
		if err != nil {
			logger.Error("error pruning notifications", "err", err)
			return
		}

		logger.Debug("pruned notifications", "count", n, "before", before)
	}
}
