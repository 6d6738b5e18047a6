package backend

import (
	"context"
	"errors"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/utils"
)

// RoleFor returns the role of a user on a board. The boolean is false when
// the user is not a member. It fails with proto.ErrBoardNotFound when the
// board does not exist.
func (d *Backend) RoleFor(ctx context.Context, boardID int64, userID int64) (access.Role, bool, error) {
	var role access.Role
	var ok bool
	err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		role, ok, err = d.roleFor(ctx, tx, boardID, userID)
		return err
	})

	return role, ok, err
}

// Authorize checks that a user holds at least the required role on a board.
func (d *Backend) Authorize(ctx context.Context, boardID int64, userID int64, required access.Role) error {
	return d.view(ctx, func(tx *db.Tx) error {
		_, err := d.authorize(ctx, tx, boardID, userID, required)
		return err
	})
}

func (d *Backend) roleFor(ctx context.Context, h db.Handler, boardID int64, userID int64) (access.Role, bool, error) {
	m, err := d.store.GetMembership(ctx, h, boardID, userID)
	if err == nil {
		return m.Role, true, nil
	}

	if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
		return 0, false, err
	}

	if _, err := d.store.GetBoardByID(ctx, h, boardID); err != nil {
		return 0, false, notFound(err, proto.ErrBoardNotFound)
	}

	return 0, false, nil
}

func (d *Backend) authorize(ctx context.Context, h db.Handler, boardID int64, userID int64, required access.Role) (access.Role, error) {
	role, ok, err := d.roleFor(ctx, h, boardID, userID)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, proto.ErrNotMember
	}

	if !role.Satisfies(required) {
		return role, proto.ErrInsufficientRole
	}

	return role, nil
}

func (d *Backend) authorizeUser(ctx context.Context, h db.Handler, boardID int64, u proto.User, required access.Role) (access.Role, error) {
	if err := requireUser(u); err != nil {
		return 0, err
	}

	return d.authorize(ctx, h, boardID, u.ID(), required)
}

// lockBoard serializes order and admin-count mutations on a board.
func (d *Backend) lockBoard(ctx context.Context, h db.Handler, boardID int64) error {
	return notFound(d.store.LockBoard(ctx, h, boardID), proto.ErrBoardNotFound)
}

// authorizeAndLock checks that u holds required on the board before taking
// the board lock, then checks again under the lock so a concurrent role
// change is observed.
func (d *Backend) authorizeAndLock(ctx context.Context, h db.Handler, boardID int64, u proto.User, required access.Role) (access.Role, error) {
	if _, err := d.authorizeUser(ctx, h, boardID, u, required); err != nil {
		return 0, err
	}

	if err := d.lockBoard(ctx, h, boardID); err != nil {
		return 0, err
	}

	return d.authorizeUser(ctx, h, boardID, u, required)
}

// ensureAdminRemains fails with proto.ErrLastAdmin when m is the only admin
// left on its board. The board must be locked.
func (d *Backend) ensureAdminRemains(ctx context.Context, h db.Handler, m models.Membership) error {
	if m.Role != access.AdminRole {
		return nil
	}

	n, err := d.store.CountAdmins(ctx, h, m.BoardID)
	if err != nil {
		return err
	}

	if n <= 1 {
		return proto.ErrLastAdmin
	}

	return nil
}

func (d *Backend) member(ctx context.Context, h db.Handler, m models.Membership) (proto.Member, error) {
	u, err := d.store.GetUserByID(ctx, h, m.UserID)
	if err != nil {
		return proto.Member{}, notFound(err, proto.ErrUserNotFound)
	}

	return toMember(models.Member{Membership: m, Username: u.Username, Email: u.Email}), nil
}

// Members lists the members of a board.
func (d *Backend) Members(ctx context.Context, caller proto.User, boardID int64) ([]proto.Member, error) {
	var ms []models.Member
	if err := d.view(ctx, func(tx *db.Tx) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.MemberRole); err != nil {
			return err
		}

		var err error
		ms, err = d.store.ListMembersByBoard(ctx, tx, boardID)
		return err
	}); err != nil {
		return nil, err
	}

	members := make([]proto.Member, len(ms))
	for i, m := range ms {
		members[i] = toMember(m)
	}

	return members, nil
}

// AddMember adds the user registered with email to a board. Only admins may
// add members. A pending invite for the user is marked accepted.
func (d *Backend) AddMember(ctx context.Context, caller proto.User, boardID int64, email string, role access.Role) (proto.Member, error) {
	if !role.Valid() {
		return proto.Member{}, proto.ErrInvalidRole
	}

	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return proto.Member{}, proto.ErrInvalidEmail
	}

	var member proto.Member
	err = d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		if _, err := d.authorizeUser(ctx, tx, boardID, caller, access.AdminRole); err != nil {
			return err
		}

		u, err := d.store.GetUserByEmail(ctx, tx, email)
		if err != nil {
			return notFound(err, proto.ErrUserNotFound)
		}

		if err := d.store.AddMembership(ctx, tx, boardID, u.ID, role); err != nil {
			return conflict(err, proto.ErrAlreadyMember)
		}

		// A direct add settles any invite still pending for the user.
		inv, err := d.store.GetPendingInvite(ctx, tx, boardID, email)
		switch {
		case err == nil:
			if _, err := d.store.AnswerInvite(ctx, tx, inv.ID, models.InviteAccepted); err != nil {
				return err
			}
		case !errors.Is(db.WrapError(err), db.ErrRecordNotFound):
			return err
		}

		m, err := d.store.GetMembership(ctx, tx, boardID, u.ID)
		if err != nil {
			return err
		}

		member = toMember(models.Member{Membership: m, Username: u.Username, Email: u.Email})
		emit(event.Event{
			Type:    event.MemberAdded,
			BoardID: boardID,
			ActorID: caller.ID(),
			UserID:  u.ID,
			Role:    role,
		})

		return nil
	})

	return member, err
}

// UpdateMemberRole changes the role of a member. Only admins may change
// roles, and the last admin of a board cannot be demoted. Setting the
// current role again is a no-op.
func (d *Backend) UpdateMemberRole(ctx context.Context, caller proto.User, boardID int64, userID int64, role access.Role) (proto.Member, error) {
	if !role.Valid() {
		return proto.Member{}, proto.ErrInvalidRole
	}

	var member proto.Member
	err := d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		if _, err := d.authorizeAndLock(ctx, tx, boardID, caller, access.AdminRole); err != nil {
			return err
		}

		m, err := d.store.GetMembership(ctx, tx, boardID, userID)
		if err != nil {
			return notFound(err, proto.ErrMemberNotFound)
		}

		if m.Role != role {
			if role != access.AdminRole {
				if err := d.ensureAdminRemains(ctx, tx, m); err != nil {
					return err
				}
			}

			if err := d.store.UpdateMembershipRole(ctx, tx, boardID, userID, role); err != nil {
				return err
			}

			m.Role = role
			emit(event.Event{
				Type:    event.RoleChanged,
				BoardID: boardID,
				ActorID: caller.ID(),
				UserID:  userID,
				Role:    role,
			})
		}

		member, err = d.member(ctx, tx, m)
		return err
	})

	return member, err
}

// RemoveMember removes a member from a board. Only admins may remove
// members, and the last admin cannot be removed.
func (d *Backend) RemoveMember(ctx context.Context, caller proto.User, boardID int64, userID int64) error {
	return d.mutate(ctx, func(tx *db.Tx, emit func(event.Event)) error {
		if _, err := d.authorizeAndLock(ctx, tx, boardID, caller, access.AdminRole); err != nil {
			return err
		}

		m, err := d.store.GetMembership(ctx, tx, boardID, userID)
		if err != nil {
			return notFound(err, proto.ErrMemberNotFound)
		}

		if err := d.ensureAdminRemains(ctx, tx, m); err != nil {
			return err
		}

		if err := d.store.RemoveMembership(ctx, tx, boardID, userID); err != nil {
			return notFound(err, proto.ErrMemberNotFound)
		}

		emit(event.Event{
			Type:    event.MemberRemoved,
			BoardID: boardID,
			ActorID: caller.ID(),
			UserID:  userID,
			Role:    m.Role,
		})

		return nil
	})
}

func toMember(m models.Member) proto.Member {
	return proto.Member{
		BoardID:  m.BoardID,
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		Role:     m.Role,
	}
}
