package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/utils"
)

// SendInvite invites email to join a board with role. The inviter must hold
// the configured invite role and cannot grant a role above their own.
func (d *Backend) SendInvite(ctx context.Context, inviter proto.User, boardID int64, email string, role access.Role) (proto.Invite, error) {
	if !role.Valid() {
		return proto.Invite{}, proto.ErrInvalidRole
	}

	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return proto.Invite{}, proto.ErrInvalidEmail
	}

	var inv models.Invite
	err = d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		own, err := d.authorizeUser(ctx, tx, boardID, inviter, d.inviteRole())
		if err != nil {
			return err
		}

		if !own.Satisfies(role) {
			return proto.ErrRoleTooHigh
		}

		var inviteeID int64
		invitee, err := d.store.GetUserByEmail(ctx, tx, email)
		switch {
		case err == nil:
			inviteeID = invitee.ID
			if _, err := d.store.GetMembership(ctx, tx, boardID, invitee.ID); err == nil {
				return proto.ErrAlreadyMember
			} else if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
				return err
			}
		case !errors.Is(db.WrapError(err), db.ErrRecordNotFound):
			return err
		}

		if _, err := d.store.GetPendingInvite(ctx, tx, boardID, email); err == nil {
			return proto.ErrInvitePending
		} else if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
			return err
		}

		inv, err = d.store.CreateInvite(ctx, tx, boardID, email, inviter.ID(), role)
		if err != nil {
			return conflict(err, proto.ErrInvitePending)
		}

		emit(event.Event{
			Type:      event.InviteSent,
			BoardID:   boardID,
			ActorID:   inviter.ID(),
			UserID:    inviteeID,
			InviteID:  inv.ID,
			InviterID: inviter.ID(),
			Role:      role,
		})

		return nil
	})
	if err != nil {
		return proto.Invite{}, err
	}

	return toInvite(inv), nil
}

// AcceptInvite accepts a pending invite addressed to u and makes u a member
// of the board.
func (d *Backend) AcceptInvite(ctx context.Context, u proto.User, inviteID int64) (proto.Invite, error) {
	return d.answerInvite(ctx, u, inviteID, models.InviteAccepted)
}

// DeclineInvite declines a pending invite addressed to u.
func (d *Backend) DeclineInvite(ctx context.Context, u proto.User, inviteID int64) (proto.Invite, error) {
	return d.answerInvite(ctx, u, inviteID, models.InviteDeclined)
}

func (d *Backend) answerInvite(ctx context.Context, u proto.User, inviteID int64, status models.InviteStatus) (proto.Invite, error) {
	if err := requireUser(u); err != nil {
		return proto.Invite{}, err
	}

	var inv models.Invite
	err := d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		var err error
		inv, err = d.store.GetInviteByID(ctx, tx, inviteID)
		if err != nil {
			return notFound(err, proto.ErrInviteNotFound)
		}

		if inv.Email != strings.ToLower(u.Email()) {
			return proto.ErrInviteNotYours
		}

		ok, err := d.store.AnswerInvite(ctx, tx, inviteID, status)
		if err != nil {
			return err
		}

		if !ok {
			return proto.ErrInviteNotPending
		}

		typ := event.InviteDeclined
		if status == models.InviteAccepted {
			typ = event.InviteAccepted
			if err := d.store.AddMembership(ctx, tx, inv.BoardID, u.ID(), inv.Role); err != nil {
				return conflict(err, proto.ErrAlreadyMember)
			}

			emit(event.Event{
				Type:    event.MemberAdded,
				BoardID: inv.BoardID,
				ActorID: u.ID(),
				UserID:  u.ID(),
				Role:    inv.Role,
			})
		}

		emit(event.Event{
			Type:      typ,
			BoardID:   inv.BoardID,
			ActorID:   u.ID(),
			UserID:    u.ID(),
			InviteID:  inv.ID,
			InviterID: inv.InviterID,
			Role:      inv.Role,
		})

		inv, err = d.store.GetInviteByID(ctx, tx, inviteID)
		return err
	})
	if err != nil {
		return proto.Invite{}, err
	}

	return toInvite(inv), nil
}

// PendingInvites returns the pending invites addressed to u.
func (d *Backend) PendingInvites(ctx context.Context, u proto.User) ([]proto.Invite, error) {
	if err := requireUser(u); err != nil {
		return nil, err
	}

	var invs []models.Invite
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		invs, err = d.store.ListPendingInvitesByEmail(ctx, tx, strings.ToLower(u.Email()))
		return err
	}); err != nil {
		return nil, err
	}

	return toInvites(invs), nil
}

// BoardInvites returns every invite of a board.
func (d *Backend) BoardInvites(ctx context.Context, caller proto.User, boardID int64) ([]proto.Invite, error) {
	var invs []models.Invite
	if err := d.view(ctx, func(tx *db.Tx) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.MemberRole); err != nil {
			return err
		}

		var err error
		invs, err = d.store.ListInvitesByBoard(ctx, tx, boardID)
		return err
	}); err != nil {
		return nil, err
	}

	return toInvites(invs), nil
}

func toInvite(i models.Invite) proto.Invite {
	return proto.Invite{
		ID:        i.ID,
		BoardID:   i.BoardID,
		Email:     i.Email,
		InviterID: i.InviterID,
		Role:      i.Role,
		Status:    i.Status.String(),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toInvites(is []models.Invite) []proto.Invite {
	invites := make([]proto.Invite, len(is))
	for i, inv := range is {
		invites[i] = toInvite(inv)
	}
	return invites
}
