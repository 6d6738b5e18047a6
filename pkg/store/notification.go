package store

import (
	"context"
	"time"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
)

// NotificationStore is an interface for managing notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, h db.Handler, userID int64, event int, payload string) (models.Notification, error)
	ListNotificationsByUser(ctx context.Context, h db.Handler, userID int64, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, h db.Handler, userID int64, id int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, h db.Handler, userID int64) (int64, error)
	DeleteReadNotificationsBefore(ctx context.Context, h db.Handler, before time.Time) (int64, error)
}
