package access

import (
	"encoding"
	"errors"
	"strings"
)

// Role is the role a user holds on a board.
type Role int

const (
	// MemberRole can read the board and edit its columns and cards.
	MemberRole Role = iota + 1

	// AdminRole can additionally manage members, invites and the board
	// itself.
	AdminRole
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case MemberRole:
		return "MEMBER"
	case AdminRole:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

// Satisfies reports whether r grants at least the privileges of required.
func (r Role) Satisfies(required Role) bool {
	return r.Valid() && r >= required
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == MemberRole || r == AdminRole
}

// ParseRole parses a role string. It returns -1 for unknown roles.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MEMBER":
		return MemberRole
	case "ADMIN":
		return AdminRole
	default:
		return Role(-1)
	}
}

var (
	_ encoding.TextMarshaler   = Role(0)
	_ encoding.TextUnmarshaler = (*Role)(nil)
)

// ErrInvalidRole is returned when an invalid role is provided.
var ErrInvalidRole = errors.New("invalid role")

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	l := ParseRole(string(text))
	if l < 0 {
		return ErrInvalidRole
	}

	*r = l

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() (text []byte, err error) {
	return []byte(r.String()), nil
}
