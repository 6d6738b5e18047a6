package store

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
)

// InviteStore is an interface for managing board invites.
type InviteStore interface {
	CreateInvite(ctx context.Context, h db.Handler, boardID int64, email string, inviterID int64, role access.Role) (models.Invite, error)
	GetInviteByID(ctx context.Context, h db.Handler, id int64) (models.Invite, error)
	GetPendingInvite(ctx context.Context, h db.Handler, boardID int64, email string) (models.Invite, error)
	ListPendingInvitesByEmail(ctx context.Context, h db.Handler, email string) ([]models.Invite, error)
	ListInvitesByBoard(ctx context.Context, h db.Handler, boardID int64) ([]models.Invite, error)

	// AnswerInvite moves a pending invite to status. It reports false when
	// the invite was no longer pending.
	AnswerInvite(ctx context.Context, h db.Handler, id int64, status models.InviteStatus) (bool, error)
}
