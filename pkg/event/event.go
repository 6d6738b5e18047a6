// Package event defines board events and the post-commit hook list that
// receives them.
package event

import (
	"encoding"
	"errors"
	"time"

	"github.com/charmbracelet/soft-board/pkg/access"
)

// Type is the type of a board event.
type Type int

const (
	// BoardCreated is emitted when a board is created.
	BoardCreated Type = iota + 1
	// BoardDeleted is emitted when a board is deleted.
	BoardDeleted
	// ColumnReordered is emitted when a column changes position.
	ColumnReordered
	// CardMoved is emitted when a card changes position or column.
	CardMoved
	// MemberAdded is emitted when a user joins a board.
	MemberAdded
	// RoleChanged is emitted when a member's role changes.
	RoleChanged
	// MemberRemoved is emitted when a member is removed from a board.
	MemberRemoved
	// InviteSent is emitted when an invite is created.
	InviteSent
	// InviteAccepted is emitted when an invite is accepted.
	InviteAccepted
	// InviteDeclined is emitted when an invite is declined.
	InviteDeclined
)

var typeStrings = map[Type]string{
	BoardCreated:    "board_created",
	BoardDeleted:    "board_deleted",
	ColumnReordered: "column_reordered",
	CardMoved:       "card_moved",
	MemberAdded:     "member_added",
	RoleChanged:     "role_changed",
	MemberRemoved:   "member_removed",
	InviteSent:      "invite_sent",
	InviteAccepted:  "invite_accepted",
	InviteDeclined:  "invite_declined",
}

// String returns the string representation of the event type.
func (t Type) String() string {
	return typeStrings[t]
}

var stringTypes = func() map[string]Type {
	m := make(map[string]Type, len(typeStrings))
	for k, v := range typeStrings {
		m[v] = k
	}
	return m
}()

// ErrInvalidType is returned when the event type is invalid.
var ErrInvalidType = errors.New("invalid event type")

// ParseType parses an event type string.
func ParseType(s string) (Type, error) {
	t, ok := stringTypes[s]
	if !ok {
		return -1, ErrInvalidType
	}

	return t, nil
}

var (
	_ encoding.TextMarshaler   = Type(0)
	_ encoding.TextUnmarshaler = (*Type)(nil)
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	et, err := ParseType(string(text))
	if err != nil {
		return err
	}

	*t = et
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() (text []byte, err error) {
	s := t.String()
	if s == "" {
		return nil, ErrInvalidType
	}

	return []byte(s), nil
}

// Event is a committed change to a board. Fields not relevant to the event
// type are zero.
type Event struct {
	Type    Type
	BoardID int64
	// ActorID is the user who performed the action.
	ActorID int64
	// UserID is the user the action was performed on: the added, removed
	// or re-roled member, or the invitee when they have an account.
	UserID    int64
	InviteID  int64
	InviterID int64
	ColumnID  int64
	CardID    int64
	Role      access.Role
	Time      time.Time
}
