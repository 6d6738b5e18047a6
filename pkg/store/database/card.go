package database

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/order"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type cardStore struct{}

var _ store.CardStore = (*cardStore)(nil)

// CreateCard implements store.CardStore.
func (s *cardStore) CreateCard(ctx context.Context, tx db.Handler, columnID int64, title string, content string, position int) (models.Card, error) {
	query := tx.Rebind(`INSERT INTO cards (column_id, title, content, position, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;`)

	var id int64
	if err := tx.GetContext(ctx, &id, query, columnID, title, content, position); err != nil {
		return models.Card{}, err //nolint:wrapcheck
	}

	return s.GetCardByID(ctx, tx, id)
}

// GetCardByID implements store.CardStore.
func (*cardStore) GetCardByID(ctx context.Context, tx db.Handler, id int64) (models.Card, error) {
	var m models.Card
	query := tx.Rebind(`SELECT * FROM cards WHERE id = ?;`)
	err := tx.GetContext(ctx, &m, query, id)
	return m, err //nolint:wrapcheck
}

// ListCardsByColumn implements store.CardStore.
func (*cardStore) ListCardsByColumn(ctx context.Context, tx db.Handler, columnID int64) ([]models.Card, error) {
	var ms []models.Card
	query := tx.Rebind(`SELECT * FROM cards WHERE column_id = ? ORDER BY position ASC, id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, columnID)
	return ms, err //nolint:wrapcheck
}

// ListCardsByBoard implements store.CardStore.
func (*cardStore) ListCardsByBoard(ctx context.Context, tx db.Handler, boardID int64) ([]models.Card, error) {
	var ms []models.Card
	query := tx.Rebind(`SELECT cards.*
			FROM cards
			INNER JOIN columns ON columns.id = cards.column_id
			WHERE columns.board_id = ?
			ORDER BY columns.position ASC, cards.position ASC, cards.id ASC;`)
	err := tx.SelectContext(ctx, &ms, query, boardID)
	return ms, err //nolint:wrapcheck
}

// CountCards implements store.CardStore.
func (*cardStore) CountCards(ctx context.Context, tx db.Handler, columnID int64) (int, error) {
	return countRows(ctx, tx, "cards", "column_id", columnID)
}

// UpdateCard implements store.CardStore.
func (*cardStore) UpdateCard(ctx context.Context, tx db.Handler, id int64, title string, content string) error {
	query := tx.Rebind(`UPDATE cards SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, title, content, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// DeleteCard implements store.CardStore.
func (*cardStore) DeleteCard(ctx context.Context, tx db.Handler, id int64) error {
	query := tx.Rebind(`DELETE FROM cards WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// SetCardColumn implements store.CardStore.
func (*cardStore) SetCardColumn(ctx context.Context, tx db.Handler, id int64, columnID int64) error {
	query := tx.Rebind(`UPDATE cards SET column_id = ?, position = -id, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	res, err := tx.ExecContext(ctx, query, columnID, id)
	if err != nil {
		return err //nolint:wrapcheck
	}
	return affected(res)
}

// UpdateCardPositions implements store.CardStore.
func (*cardStore) UpdateCardPositions(ctx context.Context, tx db.Handler, columnID int64, updates []order.Update) error {
	return updatePositions(ctx, tx, "cards", "column_id", columnID, updates)
}
