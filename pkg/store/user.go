package store

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
)

// UserStore is an interface for managing users.
type UserStore interface {
	CreateUser(ctx context.Context, h db.Handler, username string, email string) (models.User, error)
	GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, h db.Handler, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error)
}
