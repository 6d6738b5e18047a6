package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/store"
)

type datastore struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	logger *log.Logger

	*userStore
	*boardStore
	*columnStore
	*cardStore
	*membershipStore
	*inviteStore
	*notificationStore
}

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	cfg := config.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("store")

	s := &datastore{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		logger: logger,

		userStore:         &userStore{},
		boardStore:        &boardStore{},
		columnStore:       &columnStore{},
		cardStore:         &cardStore{},
		membershipStore:   &membershipStore{},
		inviteStore:       &inviteStore{},
		notificationStore: &notificationStore{},
	}

	return s
}
