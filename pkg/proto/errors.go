package proto

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers. Transports map kinds to their own
// status codes.
type Kind int

const (
	// KindInternal is an unexpected failure such as a storage error.
	KindInternal Kind = iota
	// KindValidation is a malformed or out-of-range input.
	KindValidation
	// KindNotFound is a missing board, column, card, user or invite.
	KindNotFound
	// KindUnauthorized is a caller lacking membership or role.
	KindUnauthorized
	// KindConflict is a violated uniqueness or state rule.
	KindConflict
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements error.
func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Message == "":
		return e.Kind.String()
	default:
		return e.Message
	}
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e itself or the bare sentinel of e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf returns a new error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps err as an internal error. Errors that are already
// classified are returned as is.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf returns the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	// ErrInternal matches any internal error.
	ErrInternal = &Error{Kind: KindInternal}
	// ErrValidation matches any validation error.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrNotFound matches any not found error.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrUnauthorized matches any authorization error.
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	// ErrConflict matches any conflict error.
	ErrConflict = &Error{Kind: KindConflict}
)

var (
	// ErrBoardNotFound is returned when a board is not found.
	ErrBoardNotFound = newError(KindNotFound, "board not found")
	// ErrColumnNotFound is returned when a column is not found.
	ErrColumnNotFound = newError(KindNotFound, "column not found")
	// ErrCardNotFound is returned when a card is not found.
	ErrCardNotFound = newError(KindNotFound, "card not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = newError(KindNotFound, "user not found")
	// ErrMemberNotFound is returned when a membership is not found.
	ErrMemberNotFound = newError(KindNotFound, "member not found")
	// ErrInviteNotFound is returned when an invite is not found.
	ErrInviteNotFound = newError(KindNotFound, "invite not found")
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = newError(KindNotFound, "notification not found")

	// ErrNotMember is returned when the caller is not a member of the board.
	ErrNotMember = newError(KindUnauthorized, "not a member of this board")
	// ErrInsufficientRole is returned when the caller's role is too low.
	ErrInsufficientRole = newError(KindUnauthorized, "insufficient role")
	// ErrRoleTooHigh is returned when granting a role above the caller's own.
	ErrRoleTooHigh = newError(KindUnauthorized, "cannot grant a role above your own")
	// ErrInviteNotYours is returned when acting on someone else's invite.
	ErrInviteNotYours = newError(KindUnauthorized, "invite is addressed to another user")

	// ErrLastAdmin is returned when removing or demoting the last admin.
	ErrLastAdmin = newError(KindConflict, "board must keep at least one admin")
	// ErrAlreadyMember is returned when the user is already a member.
	ErrAlreadyMember = newError(KindConflict, "user is already a member")
	// ErrInvitePending is returned when a pending invite already exists.
	ErrInvitePending = newError(KindConflict, "a pending invite already exists")
	// ErrInviteNotPending is returned when the invite was already answered.
	ErrInviteNotPending = newError(KindConflict, "invite is no longer pending")
	// ErrUserExist is returned when a username or email is taken.
	ErrUserExist = newError(KindConflict, "user already exists")

	// ErrInvalidTitle is returned for an empty title.
	ErrInvalidTitle = newError(KindValidation, "title must not be empty")
	// ErrInvalidName is returned for an empty board name.
	ErrInvalidName = newError(KindValidation, "name must not be empty")
	// ErrInvalidOrder is returned for a position outside the allowed range.
	ErrInvalidOrder = newError(KindValidation, "order out of range")
	// ErrInvalidRole is returned for an unknown role.
	ErrInvalidRole = newError(KindValidation, "invalid role")
	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = newError(KindValidation, "invalid email address")
	// ErrCrossBoardMove is returned when moving a card into another board.
	ErrCrossBoardMove = newError(KindValidation, "cannot move a card to another board")
)
