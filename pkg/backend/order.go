package backend

import (
	"context"
	"errors"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/order"
	"github.com/charmbracelet/soft-board/pkg/proto"
)

// lockColumn loads a column, authorizes caller on its board and locks the
// board. The column is read again once the lock is held so a concurrent
// delete is observed.
func (d *Backend) lockColumn(ctx context.Context, h db.Handler, caller proto.User, columnID int64, required access.Role) (models.Column, error) {
	if err := requireUser(caller); err != nil {
		return models.Column{}, err
	}

	c, err := d.store.GetColumnByID(ctx, h, columnID)
	if err != nil {
		return models.Column{}, notFound(err, proto.ErrColumnNotFound)
	}

	if _, err := d.authorizeAndLock(ctx, h, c.BoardID, caller, required); err != nil {
		return models.Column{}, err
	}

	c, err = d.store.GetColumnByID(ctx, h, columnID)
	if err != nil {
		return models.Column{}, notFound(err, proto.ErrColumnNotFound)
	}

	return c, nil
}

// lockCard loads a card with its column, authorizes caller on their board
// and locks the board.
func (d *Backend) lockCard(ctx context.Context, h db.Handler, caller proto.User, cardID int64, required access.Role) (models.Card, models.Column, error) {
	if err := requireUser(caller); err != nil {
		return models.Card{}, models.Column{}, err
	}

	c, err := d.store.GetCardByID(ctx, h, cardID)
	if err != nil {
		return models.Card{}, models.Column{}, notFound(err, proto.ErrCardNotFound)
	}

	col, err := d.store.GetColumnByID(ctx, h, c.ColumnID)
	if err != nil {
		return models.Card{}, models.Column{}, notFound(err, proto.ErrCardNotFound)
	}

	if _, err := d.authorizeAndLock(ctx, h, col.BoardID, caller, required); err != nil {
		return models.Card{}, models.Column{}, err
	}

	c, err = d.store.GetCardByID(ctx, h, cardID)
	if err != nil {
		return models.Card{}, models.Column{}, notFound(err, proto.ErrCardNotFound)
	}

	if c.ColumnID != col.ID {
		col, err = d.store.GetColumnByID(ctx, h, c.ColumnID)
		if err != nil {
			return models.Card{}, models.Column{}, notFound(err, proto.ErrCardNotFound)
		}
	}

	return c, col, nil
}

func columnItems(cols []models.Column) []order.Item {
	items := make([]order.Item, len(cols))
	for i, c := range cols {
		items[i] = order.Item{ID: c.ID, Order: c.Position}
	}
	return items
}

func cardItems(cards []models.Card) []order.Item {
	items := make([]order.Item, len(cards))
	for i, c := range cards {
		items[i] = order.Item{ID: c.ID, Order: c.Position}
	}
	return items
}

func without(items []order.Item, id int64) []order.Item {
	out := make([]order.Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// orderErr translates ordering failures. nf is returned when the element
// vanished from its sibling set.
func orderErr(err error, nf error) error {
	switch {
	case errors.Is(err, order.ErrOutOfRange):
		return proto.ErrInvalidOrder
	case errors.Is(err, order.ErrMissing):
		return nf
	default:
		return err
	}
}
