package backend

import (
	"context"
	"strings"

	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/db/models"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/utils"
)

type user struct {
	user models.User
}

var _ proto.User = (*user)(nil)

// ID implements proto.User.
func (u *user) ID() int64 {
	return u.user.ID
}

// Username implements proto.User.
func (u *user) Username() string {
	return u.user.Username
}

// Email implements proto.User.
func (u *user) Email() string {
	return u.user.Email
}

// CreateUser creates a new user.
func (d *Backend) CreateUser(ctx context.Context, username string, email string) (proto.User, error) {
	username = strings.ToLower(username)
	if err := utils.ValidateUsername(username); err != nil {
		return nil, proto.Errorf(proto.KindValidation, "%s", err)
	}

	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return nil, proto.ErrInvalidEmail
	}

	var m models.User
	if err := d.mutate(ctx, func(tx *db.Tx, _ func(event.Event)) error {
		var err error
		m, err = d.store.CreateUser(ctx, tx, username, email)
		return conflict(err, proto.ErrUserExist)
	}); err != nil {
		return nil, err
	}

	return &user{m}, nil
}

// User finds a user by username.
func (d *Backend) User(ctx context.Context, username string) (proto.User, error) {
	username = strings.ToLower(username)
	if err := utils.ValidateUsername(username); err != nil {
		return nil, proto.Errorf(proto.KindValidation, "%s", err)
	}

	if u, ok := d.cache.Get(username); ok {
		return u, nil
	}

	var m models.User
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByUsername(ctx, tx, username)
		return notFound(err, proto.ErrUserNotFound)
	}); err != nil {
		return nil, err
	}

	u := &user{m}
	d.cache.Set(username, u)

	return u, nil
}

// UserByID finds a user by ID.
func (d *Backend) UserByID(ctx context.Context, id int64) (proto.User, error) {
	var m models.User
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByID(ctx, tx, id)
		return notFound(err, proto.ErrUserNotFound)
	}); err != nil {
		return nil, err
	}

	return &user{m}, nil
}

// UserByEmail finds a user by email address.
func (d *Backend) UserByEmail(ctx context.Context, email string) (proto.User, error) {
	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return nil, proto.ErrInvalidEmail
	}

	var m models.User
	if err := d.view(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.GetUserByEmail(ctx, tx, email)
		return notFound(err, proto.ErrUserNotFound)
	}); err != nil {
		return nil, err
	}

	return &user{m}, nil
}
