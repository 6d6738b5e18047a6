package models

import "time"

// Board represents a board.
type Board struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	OwnerID   int64     `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Column represents a board column. Position is dense per board.
type Column struct {
	ID        int64     `db:"id"`
	BoardID   int64     `db:"board_id"`
	Title     string    `db:"title"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Card represents a card. Position is dense per column.
type Card struct {
	ID        int64     `db:"id"`
	ColumnID  int64     `db:"column_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
