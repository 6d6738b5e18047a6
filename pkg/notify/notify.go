// Package notify records user-facing notifications for board membership
// events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/store"
)

// Payload is the JSON body stored with a notification.
type Payload struct {
	Type     event.Type  `json:"type"`
	BoardID  int64       `json:"boardId"`
	ActorID  int64       `json:"actorId,omitempty"`
	InviteID int64       `json:"inviteId,omitempty"`
	Role     access.Role `json:"role,omitempty"`
}

// Emitter is an event hook that writes one notification per qualifying
// event.
type Emitter struct {
	db     *db.DB
	store  store.NotificationStore
	logger *log.Logger
}

var _ event.Hook = (*Emitter)(nil)

// NewEmitter returns a new notification emitter.
func NewEmitter(ctx context.Context, dbx *db.DB, s store.NotificationStore) *Emitter {
	return &Emitter{
		db:     dbx,
		store:  s,
		logger: log.FromContext(ctx).WithPrefix("notify"),
	}
}

// Recipient returns the user to notify about e, if any.
func Recipient(e event.Event) (int64, bool) {
	var id int64
	switch e.Type {
	case event.InviteSent, event.RoleChanged, event.MemberRemoved:
		id = e.UserID
	case event.InviteAccepted, event.InviteDeclined:
		id = e.InviterID
	}

	return id, id > 0
}

// Handle implements event.Hook.
func (n *Emitter) Handle(ctx context.Context, e event.Event) error {
	userID, ok := Recipient(e)
	if !ok {
		return nil
	}

	payload, err := json.Marshal(Payload{
		Type:     e.Type,
		BoardID:  e.BoardID,
		ActorID:  e.ActorID,
		InviteID: e.InviteID,
		Role:     e.Role,
	})
	if err != nil {
		return fmt.Errorf("encode notification payload: %w", err)
	}

	if err := n.db.TransactionContext(ctx, func(tx *db.Tx) error {
		_, err := n.store.CreateNotification(ctx, tx, userID, int(e.Type), string(payload))
		return err
	}); err != nil {
		return fmt.Errorf("create notification: %w", db.WrapError(err))
	}

	n.logger.Debug("notification created", "user", userID, "event", e.Type, "board", e.BoardID)

	return nil
}
