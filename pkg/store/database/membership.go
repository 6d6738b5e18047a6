package database

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type membershipStore struct{}

var _ store.MembershipStore = (*membershipStore)(nil)

// AddMembership implements store.MembershipStore.
func (*membershipStore) AddMembership(ctx context.Context, tx db.Handler, boardID int64, userID int64, role access.Role) error {
	query := tx.Rebind(`INSERT INTO memberships (board_id, user_id, role, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP);`)
	_, err := tx.ExecContext(ctx, query, boardID, userID, role)
	return err //nolint:wrapcheck
}

// GetMembership implements store.MembershipStore.
func (*membershipStore) GetMembership(ctx context.Context, tx db.Handler, boardID int64, userID int64) (models.Membership, error) {
	var m models.Membership
	query := tx.Rebind(`SELECT * FROM memberships WHERE board_id = ? AND user_id = ?;`)
	err := tx.GetContext(ctx, &m, query, boardID, userID)
	return m, err //nolint:wrapcheck
}

// ListMembersByBoard implements store.MembershipStore.
func (*membershipStore) ListMembersByBoard(ctx context.Context, tx db.Handler, boardID int64) ([]models.Member, error) {
	var ms []models.Member
	query := tx.Rebind(`SELECT memberships.*, users.username, users.email
			FROM memberships
			INNER JOIN users ON users.id = memberships.user_id
			WHERE memberships.board_id = ?
			ORDER BY memberships.id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, boardID)
	return ms, err //nolint:wrapcheck
}

// UpdateMembershipRole implements store.MembershipStore.
func (*membershipStore) UpdateMembershipRole(ctx context.Context, tx db.Handler, boardID int64, userID int64, role access.Role) error {
	query := tx.Rebind(`UPDATE memberships SET role = ?, updated_at = CURRENT_TIMESTAMP
			WHERE board_id = ? AND user_id = ?;`)
	res, err := tx.ExecContext(ctx, query, role, boardID, userID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// RemoveMembership implements store.MembershipStore.
func (*membershipStore) RemoveMembership(ctx context.Context, tx db.Handler, boardID int64, userID int64) error {
	query := tx.Rebind(`DELETE FROM memberships WHERE board_id = ? AND user_id = ?;`)
	res, err := tx.ExecContext(ctx, query, boardID, userID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// CountAdmins implements store.MembershipStore.
func (*membershipStore) CountAdmins(ctx context.Context, tx db.Handler, boardID int64) (int, error) {
	var n int
	query := tx.Rebind(`SELECT COUNT(*) FROM memberships WHERE board_id = ? AND role = ?;`)
	err := tx.GetContext(ctx, &n, query, boardID, access.AdminRole)
	return n, err //nolint:wrapcheck
}
