package database

import (
	"context"
	"strings"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type inviteStore struct{}

var _ store.InviteStore = (*inviteStore)(nil)

// CreateInvite implements store.InviteStore.
func (s *inviteStore) CreateInvite(ctx context.Context, tx db.Handler, boardID int64, email string, inviterID int64, role access.Role) (models.Invite, error) {
	query := tx.Rebind(`INSERT INTO invites (board_id, email, inviter_id, role, status, updated_at)
			VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	if err := tx.GetContext(ctx, &id, query, boardID, strings.ToLower(email), inviterID, role, models.InvitePending); err != nil {
		return models.Invite{}, err //nolint:wrapcheck
	}

	return s.GetInviteByID(ctx, tx, id)
}

// GetInviteByID implements store.InviteStore.
func (*inviteStore) GetInviteByID(ctx context.Context, tx db.Handler, id int64) (models.Invite, error) {
	var m models.Invite
	query := tx.Rebind(`SELECT * FROM invites WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, err //nolint:wrapcheck
}

// GetPendingInvite implements store.InviteStore.
func (*inviteStore) GetPendingInvite(ctx context.Context, tx db.Handler, boardID int64, email string) (models.Invite, error) {
	var m models.Invite
	query := tx.Rebind(`SELECT * FROM invites WHERE board_id = ? AND email = ? AND status = ?;`)
	err := tx.GetContext(ctx, &m, query, boardID, strings.ToLower(email), models.InvitePending)
	return m, err //nolint:wrapcheck
}

// ListPendingInvitesByEmail implements store.InviteStore.
func (*inviteStore) ListPendingInvitesByEmail(ctx context.Context, tx db.Handler, email string) ([]models.Invite, error) {
	var ms []models.Invite
	query := tx.Rebind(`SELECT * FROM invites WHERE email = ? AND status = ? ORDER BY id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, strings.ToLower(email), models.InvitePending)
	return ms, err //nolint:wrapcheck
}

// ListInvitesByBoard implements store.InviteStore.
func (*inviteStore) ListInvitesByBoard(ctx context.Context, tx db.Handler, boardID int64) ([]models.Invite, error) {
	var ms []models.Invite
	query := tx.Rebind(`SELECT * FROM invites WHERE board_id = ? ORDER BY id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, boardID)
	return ms, err //nolint:wrapcheck
}

// AnswerInvite implements store.InviteStore.
func (*inviteStore) AnswerInvite(ctx context.Context, tx db.Handler, id int64, status models.InviteStatus) (bool, error) {
	query := tx.Rebind(`UPDATE invites SET status = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND status = ?;`)
	res, err := tx.ExecContext(ctx, query, status, id, models.InvitePending)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return n == 1, nil
}
