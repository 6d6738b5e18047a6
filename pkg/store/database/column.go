package database

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/order"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type columnStore struct{}

var _ store.ColumnStore = (*columnStore)(nil)

// CreateColumn implements store.ColumnStore.
func (s *columnStore) CreateColumn(ctx context.Context, tx db.Handler, boardID int64, title string, position int) (models.Column, error) {
	query := tx.Rebind(`INSERT INTO columns (board_id, title, position, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	if err := tx.GetContext(ctx, &id, query, boardID, title, position); err != nil {
		return models.Column{}, err //nolint:wrapcheck
	}

	return s.GetColumnByID(ctx, tx, id)
}

// GetColumnByID implements store.ColumnStore.
func (*columnStore) GetColumnByID(ctx context.Context, tx db.Handler, id int64) (models.Column, error) {
	var m models.Column
	query := tx.Rebind(`SELECT * FROM columns WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, err //nolint:wrapcheck
}

// ListColumnsByBoard implements store.ColumnStore.
func (*columnStore) ListColumnsByBoard(ctx context.Context, tx db.Handler, boardID int64) ([]models.Column, error) {
	var ms []models.Column
	query := tx.Rebind(`SELECT * FROM columns WHERE board_id = ? ORDER BY position ASC, id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, boardID)
	return ms, err //nolint:wrapcheck
}

// CountColumns implements store.ColumnStore.
func (*columnStore) CountColumns(ctx context.Context, tx db.Handler, boardID int64) (int, error) {
	return countRows(ctx, tx, "columns", "board_id", boardID)
}

// UpdateColumnTitle implements store.ColumnStore.
func (*columnStore) UpdateColumnTitle(ctx context.Context, tx db.Handler, id int64, title string) error {
	query := tx.Rebind(`UPDATE columns SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, title, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// DeleteColumn implements store.ColumnStore.
func (*columnStore) DeleteColumn(ctx context.Context, tx db.Handler, id int64) error {
	query := tx.Rebind(`DELETE FROM columns WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// UpdateColumnPositions implements store.ColumnStore.
func (*columnStore) UpdateColumnPositions(ctx context.Context, tx db.Handler, boardID int64, updates []order.Update) error {
	return updatePositions(ctx, tx, "columns", "board_id", boardID, updates)
}
