package backend

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/order"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/utils"
)

// CreateColumn appends a new column to a board.
func (d *Backend) CreateColumn(ctx context.Context, caller proto.User, boardID int64, title string) (proto.Column, error) {
	title = utils.NormalizeTitle(title)
	if title == "" {
		return proto.Column{}, proto.ErrInvalidTitle
	}

	var c models.Column
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		if _, err := d.authorizeAndLock(ctx, tx, boardID, caller, access.MemberRole); err != nil {
			return err
		}

		n, err := d.store.CountColumns(ctx, tx, boardID)
		if err != nil {
			return err
		}

		c, err = d.store.CreateColumn(ctx, tx, boardID, title, n)
		return err
	})
	if err != nil {
		return proto.Column{}, err
	}

	return toColumn(c), nil
}

// Columns returns the ordered columns of a board.
func (d *Backend) Columns(ctx context.Context, caller proto.User, boardID int64) ([]proto.Column, error) {
	var cs []models.Column
	if err := d.view(ctx, func(tx *db.Tx) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.MemberRole); err != nil {
			return err
		}

		var err error
		cs, err = d.store.ListColumnsByBoard(ctx, tx, boardID)
		return err
	}); err != nil {
		return nil, err
	}

	cols := make([]proto.Column, len(cs))
	for i, c := range cs {
		cols[i] = toColumn(c)
	}

	return cols, nil
}

// ReorderColumn moves a column to newOrder within its board. A newOrder
// equal to the number of columns moves the column to the end.
func (d *Backend) ReorderColumn(ctx context.Context, caller proto.User, columnID int64, newOrder int) (proto.Column, error) {
	if newOrder < 0 {
		return proto.Column{}, proto.ErrInvalidOrder
	}

	var c models.Column
	err := d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		var err error
		c, err = d.lockColumn(ctx, tx, caller, columnID, access.MemberRole)
		if err != nil {
			return err
		}

		cols, err := d.store.ListColumnsByBoard(ctx, tx, c.BoardID)
		if err != nil {
			return err
		}

		items := columnItems(cols)
		seq, err := order.Move(order.Sequence(items), columnID, newOrder)
		if err != nil {
			return orderErr(err, proto.ErrColumnNotFound)
		}

		updates := order.Diff(items, seq)
		if len(updates) == 0 {
			return nil
		}

		if err := d.store.UpdateColumnPositions(ctx, tx, c.BoardID, updates); err != nil {
			return err
		}

		c, err = d.store.GetColumnByID(ctx, tx, columnID)
		if err != nil {
			return err
		}

		emit(event.Event{
			Type:     event.ColumnReordered,
			BoardID:  c.BoardID,
			ActorID:  caller.ID(),
			ColumnID: columnID,
		})

		return nil
	})
	if err != nil {
		return proto.Column{}, err
	}

	return toColumn(c), nil
}

// UpdateColumn changes the title of a column.
func (d *Backend) UpdateColumn(ctx context.Context, caller proto.User, columnID int64, title string) (proto.Column, error) {
	title = utils.NormalizeTitle(title)
	if title == "" {
		return proto.Column{}, proto.ErrInvalidTitle
	}

	var c models.Column
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		var err error
		c, err = d.store.GetColumnByID(ctx, tx, columnID)
		if err != nil {
			return notFound(err, proto.ErrColumnNotFound)
		}

		if _, err := d.authorizeUser(ctx, tx, c.BoardID, caller, access.MemberRole); err != nil {
			return err
		}

		if err := d.store.UpdateColumnTitle(ctx, tx, columnID, title); err != nil {
			return notFound(err, proto.ErrColumnNotFound)
		}

		c, err = d.store.GetColumnByID(ctx, tx, columnID)
		return err
	})
	if err != nil {
		return proto.Column{}, err
	}

	return toColumn(c), nil
}

// DeleteColumn deletes a column with its cards and closes the gap it leaves
// in the board's column order.
func (d *Backend) DeleteColumn(ctx context.Context, caller proto.User, columnID int64) error {
	return d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		c, err := d.lockColumn(ctx, tx, caller, columnID, access.MemberRole)
		if err != nil {
			return err
		}

		cols, err := d.store.ListColumnsByBoard(ctx, tx, c.BoardID)
		if err != nil {
			return err
		}

		if err := d.store.DeleteColumn(ctx, tx, columnID); err != nil {
			return notFound(err, proto.ErrColumnNotFound)
		}

		return d.store.UpdateColumnPositions(ctx, tx, c.BoardID, order.Normalize(without(columnItems(cols), columnID)))
	})
}
