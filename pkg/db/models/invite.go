package models

import (
	"time"

	"github.com/charmbracelet/soft-board/pkg/access"
)

// InviteStatus is the state of an invite.
type InviteStatus int

const (
	// InvitePending is an unanswered invite.
	InvitePending InviteStatus = iota
	// InviteAccepted is an accepted invite.
	InviteAccepted
	// InviteDeclined is a declined invite.
	InviteDeclined
)

// String returns the string representation of the status.
func (s InviteStatus) String() string {
	switch s {
	case InvitePending:
		return "PENDING"
	case InviteAccepted:
		return "ACCEPTED"
	case InviteDeclined:
		return "DECLINED"
	default:
		return "UNKNOWN"
	}
}

// Invite represents an invitation to a board.
type Invite struct {
	ID        int64        `db:"id"`
	BoardID   int64        `db:"board_id"`
	Email     string       `db:"email"`
	InviterID int64        `db:"inviter_id"`
	Role      access.Role  `db:"role"`
	Status    InviteStatus `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}
