package backend

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/utils"
)

// CreateBoard creates a new board owned by owner. The owner becomes the
// board's first admin.
func (d *Backend) CreateBoard(ctx context.Context, owner proto.User, name string) (proto.Board, error) {
	if err := requireUser(owner); err != nil {
		return proto.Board{}, err
	}

	name = utils.NormalizeTitle(name)
	if name == "" {
		return proto.Board{}, proto.ErrInvalidName
	}

	var b models.Board
	err := d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		var err error
		b, err = d.store.CreateBoard(ctx, tx, name, owner.ID())
		if err != nil {
			return notFound(err, proto.ErrUserNotFound)
		}

		if err := d.store.AddMembership(ctx, tx, b.ID, owner.ID(), access.AdminRole); err != nil {
			return err
		}

		emit(event.Event{
			Type:    event.BoardCreated,
			BoardID: b.ID,
			ActorID: owner.ID(),
		})

		return nil
	})
	if err != nil {
		return proto.Board{}, err
	}

	return toBoard(b), nil
}

// Board returns a board with its ordered columns and cards.
func (d *Backend) Board(ctx context.Context, caller proto.User, boardID int64) (proto.Board, error) {
	var (
		b     models.Board
		cols  []models.Column
		cards []models.Card
	)

	if err := d.view(ctx, func(tx *db.Tx) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.MemberRole); err != nil {
			return err
		}

		var err error
		b, err = d.store.GetBoardByID(ctx, tx, boardID)
		if err != nil {
			return notFound(err, proto.ErrBoardNotFound)
		}

		cols, err = d.store.ListColumnsByBoard(ctx, tx, boardID)
		if err != nil {
			return err
		}

		cards, err = d.store.ListCardsByBoard(ctx, tx, boardID)
		return err
	}); err != nil {
		return proto.Board{}, err
	}

	byColumn := make(map[int64][]proto.Card, len(cols))
	for _, c := range cards {
		byColumn[c.ColumnID] = append(byColumn[c.ColumnID], toCard(c))
	}

	board := toBoard(b)
	board.Columns = make([]proto.Column, len(cols))
	for i, c := range cols {
		board.Columns[i] = toColumn(c)
		board.Columns[i].Cards = byColumn[c.ID]
	}

	return board, nil
}

// Boards returns the boards the caller is a member of.
func (d *Backend) Boards(ctx context.Context, caller proto.User) ([]proto.Board, error) {
	if err := requireUser(caller); err != nil {
		return nil, err
	}

	var bs []models.Board
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		bs, err = d.store.ListBoardsByUserID(ctx, tx, caller.ID())
		return err
	}); err != nil {
		return nil, err
	}

	boards := make([]proto.Board, len(bs))
	for i, b := range bs {
		boards[i] = toBoard(b)
	}

	return boards, nil
}

// RenameBoard changes the name of a board. Only admins may rename a board.
func (d *Backend) RenameBoard(ctx context.Context, caller proto.User, boardID int64, name string) (proto.Board, error) {
	name = utils.NormalizeTitle(name)
	if name == "" {
		return proto.Board{}, proto.ErrInvalidName
	}

	var b models.Board
	err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.AdminRole); err != nil {
			return err
		}

		if err := d.store.UpdateBoardName(ctx, tx, boardID, name); err != nil {
			return notFound(err, proto.ErrBoardNotFound)
		}

		var err error
		b, err = d.store.GetBoardByID(ctx, tx, boardID)
		return err
	})
	if err != nil {
		return proto.Board{}, err
	}

	return toBoard(b), nil
}

// DeleteBoard deletes a board with all its columns, cards, memberships and
// invites. Only admins may delete a board.
func (d *Backend) DeleteBoard(ctx context.Context, caller proto.User, boardID int64) error {
	return d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.AdminRole); err != nil {
			return err
		}

		if err := d.store.DeleteBoard(ctx, tx, boardID); err != nil {
			return notFound(err, proto.ErrBoardNotFound)
		}

		emit(event.Event{
			Type:    event.BoardDeleted,
			BoardID: boardID,
			ActorID: caller.ID(),
		})

		return nil
	})
}

func toBoard(b models.Board) proto.Board {
	return proto.Board{
		ID:        b.ID,
		Name:      b.Name,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toColumn(c models.Column) proto.Column {
	return proto.Column{
		ID:        c.ID,
		BoardID:   c.BoardID,
		Title:     c.Title,
		Order:     c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCard(c models.Card) proto.Card {
	return proto.Card{
		ID:        c.ID,
		ColumnID:  c.ColumnID,
		Title:     c.Title,
		Content:   c.Content,
		Order:     c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
