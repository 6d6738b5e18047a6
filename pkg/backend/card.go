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

// CreateCard appends a new card to a column.
func (d *Backend) CreateCard(ctx context.Context, caller proto.User, columnID int64, title string, content string) (proto.Card, error) {
	title = utils.NormalizeTitle(title)
	if title == "" {
		return proto.Card{}, proto.ErrInvalidTitle
	}

	var c models.Card
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		if _, err := d.lockColumn(ctx, tx, caller, columnID, access.MemberRole); err != nil {
			return err
		}

		n, err := d.store.CountCards(ctx, tx, columnID)
		if err != nil {
			return err
		}

		c, err = d.store.CreateCard(ctx, tx, columnID, title, content, n)
		return err
	})
	if err != nil {
		return proto.Card{}, err
	}

	return toCard(c), nil
}

// Card returns a card.
func (d *Backend) Card(ctx context.Context, caller proto.User, cardID int64) (proto.Card, error) {
	var c models.Card
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		c, err = d.store.GetCardByID(ctx, tx, cardID)
		if err != nil {
			return notFound(err, proto.ErrCardNotFound)
		}

		col, err := d.store.GetColumnByID(ctx, tx, c.ColumnID)
		if err != nil {
			return notFound(err, proto.ErrCardNotFound)
		}

		_, err = d.authorizeUser(ctx, tx, col.BoardID, caller, access.MemberRole)
		return err
	}); err != nil {
		return proto.Card{}, err
	}

	return toCard(c), nil
}

// MoveCard moves a card to newOrder within newColumnID, which may be the
// card's current column. Both columns stay gap-free. A newOrder equal to the
// number of cards in the destination appends the card. Moving a card onto
// its current place writes nothing.
func (d *Backend) MoveCard(ctx context.Context, caller proto.User, cardID int64, newColumnID int64, newOrder int) (proto.Card, error) {
	if newOrder < 0 {
		return proto.Card{}, proto.ErrInvalidOrder
	}

	var c models.Card
	err := d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		var (
			src models.Column
			err error
		)
		c, src, err = d.lockCard(ctx, tx, caller, cardID, access.MemberRole)
		if err != nil {
			return err
		}

		var moved bool
		if newColumnID == src.ID {
			moved, err = d.moveWithinColumn(ctx, tx, src, cardID, newOrder)
		} else {
			moved, err = d.moveAcrossColumns(ctx, tx, src, cardID, newColumnID, newOrder)
		}
		if err != nil || !moved {
			return err
		}

		c, err = d.store.GetCardByID(ctx, tx, cardID)
		if err != nil {
			return err
		}

		emit(event.Event{
			Type:     event.CardMoved,
			BoardID:  src.BoardID,
			ActorID:  caller.ID(),
			ColumnID: c.ColumnID,
			CardID:   cardID,
		})

		return nil
	})
	if err != nil {
		return proto.Card{}, err
	}

	return toCard(c), nil
}

func (d *Backend) moveWithinColumn(ctx context.Context, tx db.Handler, col models.Column, cardID int64, newOrder int) (bool, error) {
	cards, err := d.store.ListCardsByColumn(ctx, tx, col.ID)
	if err != nil {
		return false, err
	}

	items := cardItems(cards)
	seq, err := order.Move(order.Sequence(items), cardID, newOrder)
	if err != nil {
		return false, orderErr(err, proto.ErrCardNotFound)
	}

	updates := order.Diff(items, seq)
	if len(updates) == 0 {
		return false, nil
	}

	return true, d.store.UpdateCardPositions(ctx, tx, col.ID, updates)
}

func (d *Backend) moveAcrossColumns(ctx context.Context, tx db.Handler, src models.Column, cardID int64, dstID int64, newOrder int) (bool, error) {
	dst, err := d.store.GetColumnByID(ctx, tx, dstID)
	if err != nil {
		return false, notFound(err, proto.ErrColumnNotFound)
	}

	if dst.BoardID != src.BoardID {
		return false, proto.ErrCrossBoardMove
	}

	srcCards, err := d.store.ListCardsByColumn(ctx, tx, src.ID)
	if err != nil {
		return false, err
	}

	dstCards, err := d.store.ListCardsByColumn(ctx, tx, dst.ID)
	if err != nil {
		return false, err
	}

	srcItems, dstItems := cardItems(srcCards), cardItems(dstCards)
	srcSeq, err := order.Remove(order.Sequence(srcItems), cardID)
	if err != nil {
		return false, orderErr(err, proto.ErrCardNotFound)
	}

	dstSeq, err := order.Insert(order.Sequence(dstItems), cardID, newOrder)
	if err != nil {
		return false, orderErr(err, proto.ErrCardNotFound)
	}

	if err := d.store.SetCardColumn(ctx, tx, cardID, dst.ID); err != nil {
		return false, notFound(err, proto.ErrCardNotFound)
	}

	if err := d.store.UpdateCardPositions(ctx, tx, src.ID, order.Diff(srcItems, srcSeq)); err != nil {
		return false, err
	}

	if err := d.store.UpdateCardPositions(ctx, tx, dst.ID, order.Diff(dstItems, dstSeq)); err != nil {
		return false, err
	}

	return true, nil
}

// UpdateCard changes the title and content of a card.
func (d *Backend) UpdateCard(ctx context.Context, caller proto.User, cardID int64, title string, content string) (proto.Card, error) {
	title = utils.NormalizeTitle(title)
	if title == "" {
		return proto.Card{}, proto.ErrInvalidTitle
	}

	var c models.Card
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		var err error
		c, err = d.store.GetCardByID(ctx, tx, cardID)
		if err != nil {
			return notFound(err, proto.ErrCardNotFound)
		}

		col, err := d.store.GetColumnByID(ctx, tx, c.ColumnID)
		if err != nil {
			return notFound(err, proto.ErrCardNotFound)
		}

		if _, err := d.authorizeUser(ctx, tx, col.BoardID, caller, access.MemberRole); err != nil {
			return err
		}

		if err := d.store.UpdateCard(ctx, tx, cardID, title, content); err != nil {
			return notFound(err, proto.ErrCardNotFound)
		}

		c, err = d.store.GetCardByID(ctx, tx, cardID)
		return err
	})
	if err != nil {
		return proto.Card{}, err
	}

	return toCard(c), nil
}

// DeleteCard deletes a card and closes the gap it leaves in its column.
func (d *Backend) DeleteCard(ctx context.Context, caller proto.User, cardID int64) error {
	return d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		_, col, err := d.lockCard(ctx, tx, caller, cardID, access.MemberRole)
		if err != nil {
			return err
		}

		cards, err := d.store.ListCardsByColumn(ctx, tx, col.ID)
		if err != nil {
			return err
		}

		if err := d.store.DeleteCard(ctx, tx, cardID); err != nil {
			return notFound(err, proto.ErrCardNotFound)
		}

		return d.store.UpdateCardPositions(ctx, tx, col.ID, order.Normalize(without(cardItems(cards), cardID)))
	})
}
