package backend

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/store"
)

// Backend is the Soft Board backend that handles boards, their columns and
// cards, memberships, invites and notifications.
type Backend struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	logger *log.Logger
	hooks  event.Hooks
	cache  *cache
}

// New returns a new Soft Board backend. hooks receive every event after the
// transaction that produced it commits.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store, hooks ...event.Hook) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	b := &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		store:  st,
		logger: logger,
		cache:  newCache(1000),
	}

	b.hooks.Add(hooks...)

	return b
}

// AddHook registers post-commit event hooks.
func (d *Backend) AddHook(hooks ...event.Hook) {
	d.hooks.Add(hooks...)
}

// Store returns the backend store.
func (d *Backend) Store() store.Store {
	return d.store
}

// inviteRole is the minimum role required to send invites.
func (d *Backend) inviteRole() access.Role {
	if d.cfg != nil && d.cfg.Boards.InviteRole.Valid() {
		return d.cfg.Boards.InviteRole
	}

	return access.AdminRole
}

// mutate runs fn in a transaction. Events passed to emit are dispatched to
// the hooks only once the transaction has committed.
func (d *Backend) mutate(ctx context.Context, fn func(tx *db.Tx, emit func(event.Event)) error) error {
	var events []event.Event
	emit := func(e event.Event) {
		if e.Time.IsZero() {
			e.Time = time.Now().UTC()
		}
		events = append(events, e)
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return fn(tx, emit)
	}); err != nil {
		return d.wrapErr(err)
	}

	d.hooks.Dispatch(ctx, d.logger, events...)

	return nil
}

// view runs fn in a read-only transaction.
func (d *Backend) view(ctx context.Context, fn func(tx *db.Tx) error) error {
	return d.wrapErr(d.db.ReadTransactionContext(ctx, fn))
}

// wrapErr makes sure no driver error leaves the backend unclassified.
func (d *Backend) wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var perr *proto.Error
	if errors.As(err, &perr) {
		return err
	}

	d.logger.Error("storage failure", "err", err)

	return proto.Internal(err)
}

// notFound translates a missing record into nf.
func notFound(err error, nf error) error {
	if errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
		return nf
	}

	return err
}

// conflict translates a unique constraint violation into cf.
func conflict(err error, cf error) error {
	if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
		return cf
	}

	return err
}

func requireUser(u proto.User) error {
	if u == nil {
		return proto.Errorf(proto.KindUnauthorized, "authentication required")
	}

	return nil
}
