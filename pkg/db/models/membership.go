package models

import (
	"time"

	"github.com/charmbracelet/soft-board/pkg/access"
)

// Membership represents a user's role on a board.
type Membership struct {
	ID        int64       `db:"id"`
	BoardID   int64       `db:"board_id"`
	UserID    int64       `db:"user_id"`
	Role      access.Role `db:"role"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

// Member is a membership joined with its user.
type Member struct {
	Membership
	Username string `db:"username"`
	Email    string `db:"email"`
}
