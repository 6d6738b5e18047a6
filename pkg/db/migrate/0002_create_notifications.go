package migrate

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/db"
)

const (
	createNotificationsName    = "create notifications"
	createNotificationsVersion = 2
)

var createNotifications = Migration{
	Name:    createNotificationsName,
	Version: createNotificationsVersion,
	Migrate: func(ctx context.Context, h db.Handler) error {
		return migrateUp(ctx, h, createNotificationsVersion, createNotificationsName)
	},
	Rollback: func(ctx context.Context, h db.Handler) error {
		return migrateDown(ctx, h, createNotificationsVersion, createNotificationsName)
	},
}
