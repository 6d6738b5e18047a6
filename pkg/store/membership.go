package store

import (
	"context"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
)

// MembershipStore is an interface for managing board memberships.
type MembershipStore interface {
	AddMembership(ctx context.Context, h db.Handler, boardID int64, userID int64, role access.Role) error
	GetMembership(ctx context.Context, h db.Handler, boardID int64, userID int64) (models.Membership, error)
	ListMembersByBoard(ctx context.Context, h db.Handler, boardID int64) ([]models.Member, error)
	UpdateMembershipRole(ctx context.Context, h db.Handler, boardID int64, userID int64, role access.Role) error
	RemoveMembership(ctx context.Context, h db.Handler, boardID int64, userID int64) error
	CountAdmins(ctx context.Context, h db.Handler, boardID int64) (int, error)
}
