package backend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/proto"
)

// Notifications returns the notifications of u, newest first.
func (d *Backend) Notifications(ctx context.Context, u proto.User, unreadOnly bool) ([]proto.Notification, error) {
	if err := requireUser(u); err != nil {
		return nil, err
	}

	var ns []models.Notification
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		ns, err = d.store.ListNotificationsByUser(ctx, tx, u.ID(), unreadOnly)
		return err
	}); err != nil {
		return nil, err
	}

	notifications := make([]proto.Notification, len(ns))
	for i, n := range ns {
		notifications[i] = d.toNotification(n)
	}

	return notifications, nil
}

// MarkNotificationRead marks one of u's notifications as read.
func (d *Backend) MarkNotificationRead(ctx context.Context, u proto.User, id int64) error {
	if err := requireUser(u); err != nil {
		return err
	}

	return d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		ok, err := d.store.MarkNotificationRead(ctx, tx, u.ID(), id)
		if err != nil {
			return err
		}

		if !ok {
			return proto.ErrNotificationNotFound
		}

		return nil
	})
}

// MarkAllNotificationsRead marks every unread notification of u as read and
// returns how many changed.
func (d *Backend) MarkAllNotificationsRead(ctx context.Context, u proto.User) (int64, error) {
	if err := requireUser(u); err != nil {
		return 0, err
	}

	var n int64
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		var err error
		n, err = d.store.MarkAllNotificationsRead(ctx, tx, u.ID())
		return err
	})

	return n, err
}

// PruneNotifications deletes read notifications created before before.
func (d *Backend) PruneNotifications(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		var err error
		n, err = d.store.DeleteReadNotificationsBefore(ctx, tx, before)
		return err
	})

	return n, err
}

func (d *Backend) toNotification(n models.Notification) proto.Notification {
	var payload map[string]any
	if n.Payload != "" {
		if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil {
			d.logger.Warn("invalid notification payload", "id", n.ID, "err", err)
		}
	}

	return proto.Notification{
		ID:        n.ID,
		Type:      event.Type(n.Event).String(),
		Payload:   payload,
		Read:      n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
