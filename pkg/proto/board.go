package proto

import (
	"time"

	"github.com/charmbracelet/soft-board/pkg/access"
)

// Board is a board with its ordered columns.
type Board struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"ownerId"`
	Columns   []Column  `json:"columns,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Column is a board column with its ordered cards.
type Column struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"boardId"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Cards     []Card    `json:"cards,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Card is a card within a column.
type Card struct {
	ID        int64     `json:"id"`
	ColumnID  int64     `json:"columnId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Member is a user's membership on a board.
type Member struct {
	BoardID  int64       `json:"boardId"`
	UserID   int64       `json:"userId"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     access.Role `json:"role"`
}

// Invite is an invitation to join a board.
type Invite struct {
	ID        int64       `json:"id"`
	BoardID   int64       `json:"boardId"`
	Email     string      `json:"email"`
	InviterID int64       `json:"inviterId"`
	Role      access.Role `json:"role"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Notification is a user-facing notification.
type Notification struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
}
