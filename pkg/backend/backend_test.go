package backend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/config"
	"github.com/charmbracelet/soft-board/pkg/db"
	"github.com/charmbracelet/soft-board/pkg/event"
	"github.com/charmbracelet/soft-board/pkg/notify"
	"github.com/charmbracelet/soft-board/pkg/order"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/store"
	"github.com/charmbracelet/soft-board/pkg/test"
	"github.com/matryer/is"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Handle(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) count(t event.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	ctx   context.Context
	be    *Backend
	rec   *recorder
	alice proto.User
	bob   proto.User
	carol proto.User
}

func setup(tb testing.TB, opts ...func(*config.Config, store.Store) store.Store) *fixture {
	tb.Helper()
	ctx := context.Background()
	dbx, st := test.OpenDB(ctx, tb)

	cfg := config.DefaultConfig()
	for _, o := range opts {
		st = o(cfg, st)
	}

	rec := &recorder{}
	be := New(ctx, cfg, dbx, st, rec, notify.NewEmitter(ctx, dbx, st))

	f := &fixture{ctx: ctx, be: be, rec: rec}
	for _, u := range []struct {
		user  *proto.User
		name  string
		email string
	}{
		{&f.alice, "alice", "alice@example.com"},
		{&f.bob, "bob", "bob@example.com"},
		{&f.carol, "carol", "carol@example.com"},
	} {
		created, err := be.CreateUser(ctx, u.name, u.email)
		if err != nil {
			tb.Fatalf("create user %s: %v", u.name, err)
		}
		*u.user = created
	}

	return f
}

// board creates a board owned by alice with the given number of cards per
// column.
func (f *fixture) board(tb testing.TB, cards ...int) (proto.Board, []proto.Column, [][]proto.Card) {
	tb.Helper()
	b, err := f.be.CreateBoard(f.ctx, f.alice, "Roadmap")
	if err != nil {
		tb.Fatal(err)
	}

	cols := make([]proto.Column, len(cards))
	all := make([][]proto.Card, len(cards))
	for i, n := range cards {
		cols[i], err = f.be.CreateColumn(f.ctx, f.alice, b.ID, "column")
		if err != nil {
			tb.Fatal(err)
		}
		for j := 0; j < n; j++ {
			c, err := f.be.CreateCard(f.ctx, f.alice, cols[i].ID, "card", "")
			if err != nil {
				tb.Fatal(err)
			}
			all[i] = append(all[i], c)
		}
	}

	return b, cols, all
}

func cardIDs(cards []proto.Card) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// assertDense checks that every column and card order of a board is
// gap-free and returns the board.
func (f *fixture) assertDense(t *testing.T, boardID int64) proto.Board {
	t.Helper()
	b, err := f.be.Board(f.ctx, f.alice, boardID)
	if err != nil {
		t.Fatal(err)
	}

	cols := make([]order.Item, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = order.Item{ID: c.ID, Order: c.Order}
		cards := make([]order.Item, len(c.Cards))
		for j, card := range c.Cards {
			cards[j] = order.Item{ID: card.ID, Order: card.Order}
		}
		if !order.IsDense(cards) {
			t.Fatalf("cards of column %d are not dense: %+v", c.ID, cards)
		}
	}
	if !order.IsDense(cols) {
		t.Fatalf("columns of board %d are not dense: %+v", boardID, cols)
	}

	return b
}

func TestCreateBoardOwnerIsAdmin(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	b, err := f.be.CreateBoard(f.ctx, f.alice, "  Roadmap ")
	is.NoErr(err)
	is.Equal(b.Name, "Roadmap")
	is.Equal(b.OwnerID, f.alice.ID())

	role, ok, err := f.be.RoleFor(f.ctx, b.ID, f.alice.ID())
	is.NoErr(err)
	is.True(ok)
	is.Equal(role, access.AdminRole)
	is.Equal(f.rec.count(event.BoardCreated), 1)

	_, ok, err = f.be.RoleFor(f.ctx, b.ID, f.bob.ID())
	is.NoErr(err)
	is.True(!ok)

	_, _, err = f.be.RoleFor(f.ctx, 999, f.bob.ID())
	is.True(errors.Is(err, proto.ErrBoardNotFound))

	_, err = f.be.CreateBoard(f.ctx, f.alice, " ")
	is.True(errors.Is(err, proto.ErrValidation))

	boards, err := f.be.Boards(f.ctx, f.alice)
	is.NoErr(err)
	is.Equal(len(boards), 1)

	boards, err = f.be.Boards(f.ctx, f.bob)
	is.NoErr(err)
	is.Equal(len(boards), 0)
}

func TestUnauthenticatedCaller(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	_, err := f.be.Board(f.ctx, nil, b.ID)
	is.True(errors.Is(err, proto.ErrUnauthorized))

	_, err = f.be.CreateBoard(f.ctx, nil, "nope")
	is.True(errors.Is(err, proto.ErrUnauthorized))
}

func TestNonMemberIsRejected(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, cards := f.board(t, 2)

	_, err := f.be.Board(f.ctx, f.bob, b.ID)
	is.True(errors.Is(err, proto.ErrNotMember))

	_, err = f.be.CreateColumn(f.ctx, f.bob, b.ID, "x")
	is.True(errors.Is(err, proto.ErrUnauthorized))

	_, err = f.be.MoveCard(f.ctx, f.bob, cards[0][0].ID, cols[0].ID, 1)
	is.True(errors.Is(err, proto.ErrUnauthorized))

	_, err = f.be.ReorderColumn(f.ctx, f.bob, cols[0].ID, 0)
	is.True(errors.Is(err, proto.ErrUnauthorized))
}

func TestColumnLifecycle(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, _ := f.board(t, 0, 0, 0, 0)

	for i, c := range cols {
		is.Equal(c.Order, i)
	}

	_, err := f.be.CreateColumn(f.ctx, f.alice, b.ID, "")
	is.True(errors.Is(err, proto.ErrInvalidTitle))

	c, err := f.be.UpdateColumn(f.ctx, f.alice, cols[1].ID, " Doing ")
	is.NoErr(err)
	is.Equal(c.Title, "Doing")

	_, err = f.be.UpdateColumn(f.ctx, f.alice, 999, "x")
	is.True(errors.Is(err, proto.ErrColumnNotFound))

	got, err := f.be.Columns(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(got), 4)
}

func TestReorderColumn(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, _ := f.board(t, 0, 0, 0, 0)
	ids := func() []int64 {
		got, err := f.be.Columns(f.ctx, f.alice, b.ID)
		is.NoErr(err)
		out := make([]int64, len(got))
		for i, c := range got {
			out[i] = c.ID
		}
		return out
	}

	c, err := f.be.ReorderColumn(f.ctx, f.alice, cols[0].ID, 2)
	is.NoErr(err)
	is.Equal(c.Order, 2)
	is.Equal(ids(), []int64{cols[1].ID, cols[2].ID, cols[0].ID, cols[3].ID})
	f.assertDense(t, b.ID)

	// count moves to the end
	c, err = f.be.ReorderColumn(f.ctx, f.alice, cols[1].ID, 4)
	is.NoErr(err)
	is.Equal(c.Order, 3)
	is.Equal(ids(), []int64{cols[2].ID, cols[0].ID, cols[3].ID, cols[1].ID})
	f.assertDense(t, b.ID)

	_, err = f.be.ReorderColumn(f.ctx, f.alice, cols[1].ID, 5)
	is.True(errors.Is(err, proto.ErrInvalidOrder))

	_, err = f.be.ReorderColumn(f.ctx, f.alice, cols[1].ID, -1)
	is.True(errors.Is(err, proto.ErrValidation))

	_, err = f.be.ReorderColumn(f.ctx, f.alice, 999, 0)
	is.True(errors.Is(err, proto.ErrColumnNotFound))

	is.Equal(f.rec.count(event.ColumnReordered), 2)
}

func TestDeleteColumnCompacts(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, _ := f.board(t, 2, 3, 1)

	is.NoErr(f.be.DeleteColumn(f.ctx, f.alice, cols[1].ID))
	got := f.assertDense(t, b.ID)
	is.Equal(len(got.Columns), 2)
	is.Equal(got.Columns[0].ID, cols[0].ID)
	is.Equal(got.Columns[1].ID, cols[2].ID)
	is.Equal(got.Columns[1].Order, 1)

	err := f.be.DeleteColumn(f.ctx, f.alice, cols[1].ID)
	is.True(errors.Is(err, proto.ErrColumnNotFound))
}

func TestMoveCardAcrossColumns(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, cards := f.board(t, 4, 2)
	a, bb := cards[0], cards[1]

	c, err := f.be.MoveCard(f.ctx, f.alice, a[1].ID, cols[1].ID, 0)
	is.NoErr(err)
	is.Equal(c.ColumnID, cols[1].ID)
	is.Equal(c.Order, 0)

	got := f.assertDense(t, b.ID)
	is.Equal(cardIDs(got.Columns[0].Cards), []int64{a[0].ID, a[2].ID, a[3].ID})
	is.Equal(cardIDs(got.Columns[1].Cards), []int64{a[1].ID, bb[0].ID, bb[1].ID})
	is.Equal(f.rec.count(event.CardMoved), 1)
}

func TestMoveCardAppendsAtCount(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, cards := f.board(t, 2, 2)

	c, err := f.be.MoveCard(f.ctx, f.alice, cards[0][0].ID, cols[1].ID, 2)
	is.NoErr(err)
	is.Equal(c.Order, 2)

	got := f.assertDense(t, b.ID)
	is.Equal(cardIDs(got.Columns[1].Cards), []int64{cards[1][0].ID, cards[1][1].ID, cards[0][0].ID})

	_, err = f.be.MoveCard(f.ctx, f.alice, cards[0][1].ID, cols[1].ID, 4)
	is.True(errors.Is(err, proto.ErrInvalidOrder))
}

func TestMoveCardWithinColumn(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, cards := f.board(t, 4)
	a := cards[0]

	c, err := f.be.MoveCard(f.ctx, f.alice, a[0].ID, cols[0].ID, 3)
	is.NoErr(err)
	is.Equal(c.Order, 3)

	got := f.assertDense(t, b.ID)
	is.Equal(cardIDs(got.Columns[0].Cards), []int64{a[1].ID, a[2].ID, a[3].ID, a[0].ID})

	// count clamps to the last position
	_, err = f.be.MoveCard(f.ctx, f.alice, a[1].ID, cols[0].ID, 4)
	is.NoErr(err)
	got = f.assertDense(t, b.ID)
	is.Equal(cardIDs(got.Columns[0].Cards), []int64{a[2].ID, a[3].ID, a[0].ID, a[1].ID})

	_, err = f.be.MoveCard(f.ctx, f.alice, a[1].ID, cols[0].ID, 5)
	is.True(errors.Is(err, proto.ErrInvalidOrder))
}

func TestMoveCardNoop(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, cards := f.board(t, 3)

	before, err := f.be.Card(f.ctx, f.alice, cards[0][1].ID)
	is.NoErr(err)

	c, err := f.be.MoveCard(f.ctx, f.alice, cards[0][1].ID, cols[0].ID, 1)
	is.NoErr(err)
	is.Equal(c.Order, 1)
	is.Equal(c.UpdatedAt, before.UpdatedAt)
	is.Equal(f.rec.count(event.CardMoved), 0)
	f.assertDense(t, b.ID)
}

func TestMoveCardErrors(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	_, cols, cards := f.board(t, 2)
	_, other, _ := f.board(t, 1)

	_, err := f.be.MoveCard(f.ctx, f.alice, cards[0][0].ID, other[0].ID, 0)
	is.True(errors.Is(err, proto.ErrCrossBoardMove))

	_, err = f.be.MoveCard(f.ctx, f.alice, cards[0][0].ID, 999, 0)
	is.True(errors.Is(err, proto.ErrColumnNotFound))

	_, err = f.be.MoveCard(f.ctx, f.alice, 999, cols[0].ID, 0)
	is.True(errors.Is(err, proto.ErrCardNotFound))

	_, err = f.be.MoveCard(f.ctx, f.alice, cards[0][0].ID, cols[0].ID, -1)
	is.True(errors.Is(err, proto.ErrInvalidOrder))
}

type failingStore struct {
	store.Store
}

var errBoom = errors.New("boom")

func (failingStore) UpdateCardPositions(context.Context, db.Handler, int64, []order.Update) error {
	return errBoom
}

func TestMoveCardRollsBack(t *testing.T) {
	is := is.New(t)
	f := setup(t, func(_ *config.Config, st store.Store) store.Store {
		return failingStore{st}
	})
	b, err := f.be.CreateBoard(f.ctx, f.alice, "Roadmap")
	is.NoErr(err)
	src, err := f.be.CreateColumn(f.ctx, f.alice, b.ID, "todo")
	is.NoErr(err)
	dst, err := f.be.CreateColumn(f.ctx, f.alice, b.ID, "done")
	is.NoErr(err)
	c1, err := f.be.CreateCard(f.ctx, f.alice, src.ID, "one", "")
	is.NoErr(err)
	c2, err := f.be.CreateCard(f.ctx, f.alice, src.ID, "two", "")
	is.NoErr(err)

	_, err = f.be.MoveCard(f.ctx, f.alice, c1.ID, dst.ID, 0)
	is.True(errors.Is(err, proto.ErrInternal))
	is.True(errors.Is(err, errBoom))

	got := f.assertDense(t, b.ID)
	is.Equal(cardIDs(got.Columns[0].Cards), []int64{c1.ID, c2.ID})
	is.Equal(len(got.Columns[1].Cards), 0)
	is.Equal(f.rec.count(event.CardMoved), 0)
}

func TestDeleteCardCompacts(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, cards := f.board(t, 4)

	is.NoErr(f.be.DeleteCard(f.ctx, f.alice, cards[0][1].ID))
	got := f.assertDense(t, b.ID)
	is.Equal(cardIDs(got.Columns[0].Cards), []int64{cards[0][0].ID, cards[0][2].ID, cards[0][3].ID})

	_, err := f.be.Card(f.ctx, f.alice, cards[0][1].ID)
	is.True(errors.Is(err, proto.ErrCardNotFound))
}

func TestUpdateCard(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	_, _, cards := f.board(t, 1)

	c, err := f.be.UpdateCard(f.ctx, f.alice, cards[0][0].ID, "Ship it", "soon")
	is.NoErr(err)
	is.Equal(c.Title, "Ship it")
	is.Equal(c.Content, "soon")

	_, err = f.be.UpdateCard(f.ctx, f.alice, cards[0][0].ID, "", "x")
	is.True(errors.Is(err, proto.ErrInvalidTitle))
}

func TestConcurrentMovesStayDense(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, cols, cards := f.board(t, 5, 5)

	var all []int64
	for _, cs := range cards {
		all = append(all, cardIDs(cs)...)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(all)*4)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				id := all[(w*7+i*3)%len(all)]
				col := cols[(w+i)%len(cols)]
				if _, err := f.be.MoveCard(f.ctx, f.alice, id, col.ID, 0); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		is.NoErr(err)
	}

	got := f.assertDense(t, b.ID)
	var n int
	for _, c := range got.Columns {
		n += len(c.Cards)
	}
	is.Equal(n, len(all))
}

func TestMembership(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	m, err := f.be.AddMember(f.ctx, f.alice, b.ID, "BOB@example.com", access.MemberRole)
	is.NoErr(err)
	is.Equal(m.UserID, f.bob.ID())
	is.Equal(m.Role, access.MemberRole)

	_, err = f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.True(errors.Is(err, proto.ErrAlreadyMember))

	_, err = f.be.AddMember(f.ctx, f.alice, b.ID, "nobody@example.com", access.MemberRole)
	is.True(errors.Is(err, proto.ErrUserNotFound))

	_, err = f.be.AddMember(f.ctx, f.bob, b.ID, "carol@example.com", access.MemberRole)
	is.True(errors.Is(err, proto.ErrInsufficientRole))

	is.NoErr(f.be.Authorize(f.ctx, b.ID, f.bob.ID(), access.MemberRole))
	is.True(errors.Is(f.be.Authorize(f.ctx, b.ID, f.bob.ID(), access.AdminRole), proto.ErrInsufficientRole))
	is.True(errors.Is(f.be.Authorize(f.ctx, b.ID, f.carol.ID(), access.MemberRole), proto.ErrNotMember))

	members, err := f.be.Members(f.ctx, f.bob, b.ID)
	is.NoErr(err)
	is.Equal(len(members), 2)

	// unchanged role is a no-op
	_, err = f.be.UpdateMemberRole(f.ctx, f.alice, b.ID, f.bob.ID(), access.MemberRole)
	is.NoErr(err)
	is.Equal(f.rec.count(event.RoleChanged), 0)

	m, err = f.be.UpdateMemberRole(f.ctx, f.alice, b.ID, f.bob.ID(), access.AdminRole)
	is.NoErr(err)
	is.Equal(m.Role, access.AdminRole)
	is.Equal(f.rec.count(event.RoleChanged), 1)

	_, err = f.be.UpdateMemberRole(f.ctx, f.alice, b.ID, f.carol.ID(), access.AdminRole)
	is.True(errors.Is(err, proto.ErrMemberNotFound))

	// bob is notified about his new role
	ns, err := f.be.Notifications(f.ctx, f.bob, true)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Type, "role_changed")
}

func TestLastAdmin(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	_, err := f.be.UpdateMemberRole(f.ctx, f.alice, b.ID, f.alice.ID(), access.MemberRole)
	is.True(errors.Is(err, proto.ErrLastAdmin))
	is.True(errors.Is(err, proto.ErrConflict))

	err = f.be.RemoveMember(f.ctx, f.alice, b.ID, f.alice.ID())
	is.True(errors.Is(err, proto.ErrLastAdmin))

	role, ok, err := f.be.RoleFor(f.ctx, b.ID, f.alice.ID())
	is.NoErr(err)
	is.True(ok)
	is.Equal(role, access.AdminRole)

	_, err = f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.AdminRole)
	is.NoErr(err)

	_, err = f.be.UpdateMemberRole(f.ctx, f.bob, b.ID, f.alice.ID(), access.MemberRole)
	is.NoErr(err)

	err = f.be.RemoveMember(f.ctx, f.bob, b.ID, f.bob.ID())
	is.True(errors.Is(err, proto.ErrLastAdmin))
}

func TestRemoveMember(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	_, err := f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.NoErr(err)
	_, err = f.be.AddMember(f.ctx, f.alice, b.ID, "carol@example.com", access.MemberRole)
	is.NoErr(err)

	err = f.be.RemoveMember(f.ctx, f.bob, b.ID, f.carol.ID())
	is.True(errors.Is(err, proto.ErrInsufficientRole))

	// members cannot remove themselves either
	err = f.be.RemoveMember(f.ctx, f.bob, b.ID, f.bob.ID())
	is.True(errors.Is(err, proto.ErrInsufficientRole))
	is.Equal(f.rec.count(event.MemberRemoved), 0)

	is.NoErr(f.be.RemoveMember(f.ctx, f.alice, b.ID, f.carol.ID()))
	is.NoErr(f.be.RemoveMember(f.ctx, f.alice, b.ID, f.bob.ID()))

	err = f.be.RemoveMember(f.ctx, f.alice, b.ID, f.bob.ID())
	is.True(errors.Is(err, proto.ErrMemberNotFound))

	members, err := f.be.Members(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(members), 1)

	ns, err := f.be.Notifications(f.ctx, f.carol, false)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Type, "member_removed")
}

func TestInviteLifecycle(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	inv, err := f.be.SendInvite(f.ctx, f.alice, b.ID, "Bob@Example.com", access.MemberRole)
	is.NoErr(err)
	is.Equal(inv.Email, "bob@example.com")
	is.Equal(inv.Status, "PENDING")

	_, err = f.be.SendInvite(f.ctx, f.alice, b.ID, "bob@example.com", access.AdminRole)
	is.True(errors.Is(err, proto.ErrInvitePending))

	_, err = f.be.SendInvite(f.ctx, f.alice, b.ID, "alice@example.com", access.MemberRole)
	is.True(errors.Is(err, proto.ErrAlreadyMember))

	pending, err := f.be.PendingInvites(f.ctx, f.bob)
	is.NoErr(err)
	is.Equal(len(pending), 1)

	ns, err := f.be.Notifications(f.ctx, f.bob, true)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Type, "invite_sent")
	is.Equal(ns[0].Payload["boardId"], float64(b.ID))

	_, err = f.be.AcceptInvite(f.ctx, f.carol, inv.ID)
	is.True(errors.Is(err, proto.ErrInviteNotYours))

	inv, err = f.be.AcceptInvite(f.ctx, f.bob, inv.ID)
	is.NoErr(err)
	is.Equal(inv.Status, "ACCEPTED")

	role, ok, err := f.be.RoleFor(f.ctx, b.ID, f.bob.ID())
	is.NoErr(err)
	is.True(ok)
	is.Equal(role, access.MemberRole)

	_, err = f.be.AcceptInvite(f.ctx, f.bob, inv.ID)
	is.True(errors.Is(err, proto.ErrInviteNotPending))
	_, err = f.be.DeclineInvite(f.ctx, f.bob, inv.ID)
	is.True(errors.Is(err, proto.ErrInviteNotPending))

	ns, err = f.be.Notifications(f.ctx, f.alice, false)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Type, "invite_accepted")

	// members may not invite under the default policy
	_, err = f.be.SendInvite(f.ctx, f.bob, b.ID, "carol@example.com", access.MemberRole)
	is.True(errors.Is(err, proto.ErrInsufficientRole))

	_, err = f.be.AcceptInvite(f.ctx, f.bob, 999)
	is.True(errors.Is(err, proto.ErrInviteNotFound))
}

func TestDeclineInvite(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	inv, err := f.be.SendInvite(f.ctx, f.alice, b.ID, "carol@example.com", access.AdminRole)
	is.NoErr(err)

	inv, err = f.be.DeclineInvite(f.ctx, f.carol, inv.ID)
	is.NoErr(err)
	is.Equal(inv.Status, "DECLINED")

	_, ok, err := f.be.RoleFor(f.ctx, b.ID, f.carol.ID())
	is.NoErr(err)
	is.True(!ok)

	// a declined invite does not block a new one
	_, err = f.be.SendInvite(f.ctx, f.alice, b.ID, "carol@example.com", access.MemberRole)
	is.NoErr(err)

	invites, err := f.be.BoardInvites(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(invites), 2)

	ns, err := f.be.Notifications(f.ctx, f.alice, false)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Type, "invite_declined")
}

func TestAddMemberSettlesPendingInvite(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	inv, err := f.be.SendInvite(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.NoErr(err)

	_, err = f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.AdminRole)
	is.NoErr(err)

	pending, err := f.be.PendingInvites(f.ctx, f.bob)
	is.NoErr(err)
	is.Equal(len(pending), 0)

	invites, err := f.be.BoardInvites(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(invites), 1)
	is.Equal(invites[0].ID, inv.ID)
	is.Equal(invites[0].Status, "ACCEPTED")

	_, err = f.be.AcceptInvite(f.ctx, f.bob, inv.ID)
	is.True(errors.Is(err, proto.ErrInviteNotPending))

	// the direct add keeps its role
	role, ok, err := f.be.RoleFor(f.ctx, b.ID, f.bob.ID())
	is.NoErr(err)
	is.True(ok)
	is.Equal(role, access.AdminRole)
	is.Equal(f.rec.count(event.MemberAdded), 1)
	is.Equal(f.rec.count(event.InviteAccepted), 0)
}

func TestInviteUnknownEmail(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	_, err := f.be.SendInvite(f.ctx, f.alice, b.ID, "dave@example.com", access.MemberRole)
	is.NoErr(err)
	is.Equal(f.rec.count(event.InviteSent), 1)

	_, err = f.be.SendInvite(f.ctx, f.alice, b.ID, "not an email", access.MemberRole)
	is.True(errors.Is(err, proto.ErrInvalidEmail))
}

func TestInvitePolicy(t *testing.T) {
	is := is.New(t)
	f := setup(t, func(cfg *config.Config, st store.Store) store.Store {
		cfg.Boards.InviteRole = access.MemberRole
		return st
	})
	b, _, _ := f.board(t, 0)

	_, err := f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.NoErr(err)

	_, err = f.be.SendInvite(f.ctx, f.bob, b.ID, "carol@example.com", access.AdminRole)
	is.True(errors.Is(err, proto.ErrRoleTooHigh))

	_, err = f.be.SendInvite(f.ctx, f.bob, b.ID, "carol@example.com", access.MemberRole)
	is.NoErr(err)
}

func TestNotifications(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 0)

	_, err := f.be.SendInvite(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.NoErr(err)
	_, err = f.be.AddMember(f.ctx, f.alice, b.ID, "carol@example.com", access.MemberRole)
	is.NoErr(err)
	_, err = f.be.UpdateMemberRole(f.ctx, f.alice, b.ID, f.carol.ID(), access.AdminRole)
	is.NoErr(err)

	// member added is not notified
	ns, err := f.be.Notifications(f.ctx, f.carol, false)
	is.NoErr(err)
	is.Equal(len(ns), 1)

	ns, err = f.be.Notifications(f.ctx, f.bob, false)
	is.NoErr(err)
	is.Equal(len(ns), 1)

	is.NoErr(f.be.MarkNotificationRead(f.ctx, f.bob, ns[0].ID))
	err = f.be.MarkNotificationRead(f.ctx, f.carol, ns[0].ID)
	is.True(errors.Is(err, proto.ErrNotificationNotFound))

	ns, err = f.be.Notifications(f.ctx, f.bob, true)
	is.NoErr(err)
	is.Equal(len(ns), 0)

	n, err := f.be.MarkAllNotificationsRead(f.ctx, f.carol)
	is.NoErr(err)
	is.Equal(n, int64(1))
}

func TestHookFailureDoesNotFailMutation(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.be.AddHook(event.HookFunc(func(context.Context, event.Event) error {
		panic("hook exploded")
	}))

	b, err := f.be.CreateBoard(f.ctx, f.alice, "Roadmap")
	is.NoErr(err)
	is.Equal(f.rec.count(event.BoardCreated), 1)

	_, err = f.be.Board(f.ctx, f.alice, b.ID)
	is.NoErr(err)
}

func TestDeleteBoard(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	b, _, _ := f.board(t, 2, 1)

	_, err := f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.NoErr(err)

	err = f.be.DeleteBoard(f.ctx, f.bob, b.ID)
	is.True(errors.Is(err, proto.ErrInsufficientRole))

	renamed, err := f.be.RenameBoard(f.ctx, f.alice, b.ID, "Plans")
	is.NoErr(err)
	is.Equal(renamed.Name, "Plans")

	is.NoErr(f.be.DeleteBoard(f.ctx, f.alice, b.ID))
	is.Equal(f.rec.count(event.BoardDeleted), 1)

	_, err = f.be.Board(f.ctx, f.alice, b.ID)
	is.True(errors.Is(err, proto.ErrBoardNotFound))
}

func TestUserLookupIsCached(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	is.Equal(f.be.cache.Len(), 0)

	u, err := f.be.User(f.ctx, "Alice")
	is.NoErr(err)
	is.Equal(u.ID(), f.alice.ID())
	is.Equal(f.be.cache.Len(), 1)

	again, err := f.be.User(f.ctx, "alice")
	is.NoErr(err)
	is.Equal(again, u)

	_, err = f.be.User(f.ctx, "nobody")
	is.True(errors.Is(err, proto.ErrUserNotFound))
	is.Equal(f.be.cache.Len(), 1)
}

type lockCounter struct {
	store.Store
	n atomic.Int64
}

func (s *lockCounter) LockBoard(ctx context.Context, h db.Handler, id int64) error {
	s.n.Add(1)
	return s.Store.LockBoard(ctx, h, id)
}

func TestNonMemberDoesNotLockBoard(t *testing.T) {
	is := is.New(t)
	counter := &lockCounter{}
	f := setup(t, func(_ *config.Config, st store.Store) store.Store {
		counter.Store = st
		return counter
	})
	b, cols, cards := f.board(t, 2)

	_, err := f.be.AddMember(f.ctx, f.alice, b.ID, "bob@example.com", access.MemberRole)
	is.NoErr(err)

	before := counter.n.Load()

	_, err = f.be.CreateColumn(f.ctx, f.carol, b.ID, "x")
	is.True(errors.Is(err, proto.ErrNotMember))
	_, err = f.be.ReorderColumn(f.ctx, f.carol, cols[0].ID, 0)
	is.True(errors.Is(err, proto.ErrNotMember))
	err = f.be.DeleteColumn(f.ctx, f.carol, cols[0].ID)
	is.True(errors.Is(err, proto.ErrNotMember))
	_, err = f.be.CreateCard(f.ctx, f.carol, cols[0].ID, "x", "")
	is.True(errors.Is(err, proto.ErrNotMember))
	_, err = f.be.MoveCard(f.ctx, f.carol, cards[0][0].ID, cols[0].ID, 1)
	is.True(errors.Is(err, proto.ErrNotMember))
	err = f.be.DeleteCard(f.ctx, f.carol, cards[0][0].ID)
	is.True(errors.Is(err, proto.ErrNotMember))
	err = f.be.RemoveMember(f.ctx, f.carol, b.ID, f.bob.ID())
	is.True(errors.Is(err, proto.ErrNotMember))
	_, err = f.be.UpdateMemberRole(f.ctx, f.carol, b.ID, f.bob.ID(), access.AdminRole)
	is.True(errors.Is(err, proto.ErrNotMember))

	// insufficient role is rejected before the lock too
	err = f.be.RemoveMember(f.ctx, f.bob, b.ID, f.alice.ID())
	is.True(errors.Is(err, proto.ErrInsufficientRole))

	is.Equal(counter.n.Load(), before)

	_, err = f.be.MoveCard(f.ctx, f.alice, cards[0][0].ID, cols[0].ID, 1)
	is.NoErr(err)
	is.Equal(counter.n.Load(), before+1)
}

type stallingStore struct {
	store.Store
	armed   atomic.Bool
	held    chan struct{}
	release chan struct{}
}

func (s *stallingStore) LockBoard(ctx context.Context, h db.Handler, id int64) error {
	if err := s.Store.LockBoard(ctx, h, id); err != nil {
		return err
	}
	if s.armed.CompareAndSwap(true, false) {
		close(s.held)
		<-s.release
	}
	return nil
}

func TestReadsDoNotWaitForWrites(t *testing.T) {
	is := is.New(t)
	stall := &stallingStore{
		held:    make(chan struct{}),
		release: make(chan struct{}),
	}
	f := setup(t, func(_ *config.Config, st store.Store) store.Store {
		stall.Store = st
		return stall
	})
	b, _, _ := f.board(t, 1)

	stall.armed.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := f.be.CreateColumn(f.ctx, f.alice, b.ID, "late")
		done <- err
	}()
	<-stall.held

	got, err := f.be.Board(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(got.Columns), 1)

	members, err := f.be.Members(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(members), 1)

	close(stall.release)
	is.NoErr(<-done)

	got, err = f.be.Board(f.ctx, f.alice, b.ID)
	is.NoErr(err)
	is.Equal(len(got.Columns), 2)
}
