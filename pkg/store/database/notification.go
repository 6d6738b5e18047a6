package database

import (
	"context"
	"time"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type notificationStore struct{}

var _ store.NotificationStore = (*notificationStore)(nil)

// CreateNotification implements store.NotificationStore.
func (*notificationStore) CreateNotification(ctx context.Context, tx db.Handler, userID int64, event int, payload string) (models.Notification, error) {
	query := tx.Rebind(`INSERT INTO notifications (user_id, event, payload)
			VALUES (?, ?, ?) RETURNING id;`)

	var id int64
	if err := tx.GetContext(ctx, &id, query, userID, event, payload); err != nil {
		return models.Notification{}, err //nolint:wrapcheck
	}

	var m models.Notification
	err := tx.GetContext(ctx, &m, tx.Rebind(`SELECT * FROM notifications WHERE id = ?;`), id)
	return m, err //nolint:wrapcheck
}

// ListNotificationsByUser implements store.NotificationStore.
func (*notificationStore) ListNotificationsByUser(ctx context.Context, tx db.Handler, userID int64, unreadOnly bool) ([]models.Notification, error) {
	var ms []models.Notification
	query := `SELECT * FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY id DESC;`
	err := tx.SelectContext(ctx, &ms, tx.Rebind(query), userID)
	return ms, err //nolint:wrapcheck
}

// MarkNotificationRead implements store.NotificationStore.
func (*notificationStore) MarkNotificationRead(ctx context.Context, tx db.Handler, userID int64, id int64) (bool, error) {
	query := tx.Rebind(`UPDATE notifications SET is_read = true WHERE id = ? AND user_id = ?;`)
	res, err := tx.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	n, err := res.RowsAffected()
	return n == 1, err //nolint:wrapcheck
}

// MarkAllNotificationsRead implements store.NotificationStore.
func (*notificationStore) MarkAllNotificationsRead(ctx context.Context, tx db.Handler, userID int64) (int64, error) {
	query := tx.Rebind(`UPDATE notifications SET is_read = true WHERE user_id = ? AND is_read = false;`)
	res, err := tx.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return res.RowsAffected() //nolint:wrapcheck
}

// DeleteReadNotificationsBefore implements store.NotificationStore.
func (*notificationStore) DeleteReadNotificationsBefore(ctx context.Context, tx db.Handler, before time.Time) (int64, error) {
	query := tx.Rebind(`DELETE FROM notifications WHERE is_read = true AND created_at < ?;`)
	res, err := tx.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return res.RowsAffected() //nolint:wrapcheck
}
