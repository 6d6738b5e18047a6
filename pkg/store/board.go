package store

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/order"
)

// BoardStore is an interface for managing boards.
type BoardStore interface {
	CreateBoard(ctx context.Context, h db.Handler, name string, ownerID int64) (models.Board, error)
	GetBoardByID(ctx context.Context, h db.Handler, id int64) (models.Board, error)
	ListBoardsByUserID(ctx context.Context, h db.Handler, userID int64) ([]models.Board, error)
	UpdateBoardName(ctx context.Context, h db.Handler, id int64, name string) error
	DeleteBoard(ctx context.Context, h db.Handler, id int64) error

	// LockBoard takes the write lock on a board row for the remainder of
	// the transaction. It returns db.ErrRecordNotFound when the board does
	// not exist.
	LockBoard(ctx context.Context, h db.Handler, id int64) error
}

// ColumnStore is an interface for managing board columns.
type ColumnStore interface {
	CreateColumn(ctx context.Context, h db.Handler, boardID int64, title string, position int) (models.Column, error)
	GetColumnByID(ctx context.Context, h db.Handler, id int64) (models.Column, error)
	ListColumnsByBoard(ctx context.Context, h db.Handler, boardID int64) ([]models.Column, error)
	CountColumns(ctx context.Context, h db.Handler, boardID int64) (int, error)
	UpdateColumnTitle(ctx context.Context, h db.Handler, id int64, title string) error
	DeleteColumn(ctx context.Context, h db.Handler, id int64) error

	// UpdateColumnPositions applies position updates for columns of a board
	// as one batch.
	UpdateColumnPositions(ctx context.Context, h db.Handler, boardID int64, updates []order.Update) error
}

// CardStore is an interface for managing cards.
type CardStore interface {
	CreateCard(ctx context.Context, h db.Handler, columnID int64, title string, content string, position int) (models.Card, error)
	GetCardByID(ctx context.Context, h db.Handler, id int64) (models.Card, error)
	ListCardsByColumn(ctx context.Context, h db.Handler, columnID int64) ([]models.Card, error)
	ListCardsByBoard(ctx context.Context, h db.Handler, boardID int64) ([]models.Card, error)
	CountCards(ctx context.Context, h db.Handler, columnID int64) (int, error)
	UpdateCard(ctx context.Context, h db.Handler, id int64, title string, content string) error
	DeleteCard(ctx context.Context, h db.Handler, id int64) error

	// SetCardColumn re-parents a card. The card is parked at a negative
	// position until the destination positions are written.
	SetCardColumn(ctx context.Context, h db.Handler, id int64, columnID int64) error

	// UpdateCardPositions applies position updates for cards of a column as
	// one batch.
	UpdateCardPositions(ctx context.Context, h db.Handler, columnID int64, updates []order.Update) error
}
