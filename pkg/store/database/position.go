package database

import (
	"context"
	"fmt"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/order"
	"github.com/jmoiron/sqlx"
)

// updatePositions writes a batch of position updates for the rows of table
// whose scope column equals scopeID. Every affected row is first parked at
// -id so the (scope, position) unique constraint holds after each statement.
func updatePositions(ctx context.Context, tx db.Handler, table, scope string, scopeID int64, updates []order.Update) error {
	if len(updates) == 0 {
		return nil
	}

	ids := make([]int64, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}

	park, args, err := sqlx.In(fmt.Sprintf(`UPDATE %s SET position = -id
			WHERE %s = ? AND id IN (?);`, table, scope), scopeID, ids)
	if err != nil {
		return err //nolint:wrapcheck
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(park), args...)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if n, err := res.RowsAffected(); err != nil {
		return err //nolint:wrapcheck
	} else if n != int64(len(ids)) {
		return db.ErrRecordNotFound
	}

	query := tx.Rebind(fmt.Sprintf(`UPDATE %s SET position = ?, updated_at = CURRENT_TIMESTAMP
			WHERE %s = ? AND id = ?;`, table, scope))
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, query, u.To, scopeID, u.ID); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func countRows(ctx context.Context, tx db.Handler, table, scope string, scopeID int64) (int, error) {
	var n int
	query := tx.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?;`, table, scope))
	err := tx.GetContext(ctx, &n, query, scopeID)
	return n, err //nolint:wrapcheck
}

func affected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err //nolint:wrapcheck
	}
	if n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}
