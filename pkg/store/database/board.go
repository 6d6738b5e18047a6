package database

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type boardStore struct{}

var _ store.BoardStore = (*boardStore)(nil)

// CreateBoard implements store.BoardStore.
func (s *boardStore) CreateBoard(ctx context.Context, tx db.Handler, name string, ownerID int64) (models.Board, error) {
	query := tx.Rebind(`INSERT INTO boards (name, owner_id, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	if err := tx.GetContext(ctx, &id, query, name, ownerID); err != nil {
		return models.Board{}, err //nolint:wrapcheck
	}

	return s.GetBoardByID(ctx, tx, id)
}

// GetBoardByID implements store.BoardStore.
func (*boardStore) GetBoardByID(ctx context.Context, tx db.Handler, id int64) (models.Board, error) {
	var m models.Board
	query := tx.Rebind(`SELECT * FROM boards WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, err //nolint:wrapcheck
}

// ListBoardsByUserID implements store.BoardStore.
func (*boardStore) ListBoardsByUserID(ctx context.Context, tx db.Handler, userID int64) ([]models.Board, error) {
	var ms []models.Board
	query := tx.Rebind(`SELECT boards.*
			FROM boards
			INNER JOIN memberships ON memberships.board_id = boards.id
			WHERE memberships.user_id = ?
			ORDER BY boards.id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, userID)
	return ms, err //nolint:wrapcheck
}

// UpdateBoardName implements store.BoardStore.
func (*boardStore) UpdateBoardName(ctx context.Context, tx db.Handler, id int64, name string) error {
	query := tx.Rebind(`UPDATE boards SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, name, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// DeleteBoard implements store.BoardStore.
func (*boardStore) DeleteBoard(ctx context.Context, tx db.Handler, id int64) error {
	query := tx.Rebind(`DELETE FROM boards WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// LockBoard implements store.BoardStore.
func (*boardStore) LockBoard(ctx context.Context, tx db.Handler, id int64) error {
	query := tx.Rebind(`UPDATE boards SET updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}
