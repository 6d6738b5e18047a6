package event

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/matryer/is"
)

func TestDispatchOrder(t *testing.T) {
	is := is.New(t)
	var got []string
	var hooks Hooks
	hooks.Add(
		HookFunc(func(_ context.Context, e Event) error {
			got = append(got, "a:"+e.Type.String())
			return nil
		}),
		HookFunc(func(_ context.Context, e Event) error {
			got = append(got, "b:"+e.Type.String())
			return nil
		}),
	)
	is.Equal(hooks.Len(), 2)

	hooks.Dispatch(context.TODO(), nil, Event{Type: InviteSent}, Event{Type: RoleChanged})
	is.Equal(got, []string{"a:invite_sent", "b:invite_sent", "a:role_changed", "b:role_changed"})
}

func TestDispatchIsolatesFailures(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	logger := log.New(&buf)

	delivered := 0
	var hooks Hooks
	hooks.Add(
		HookFunc(func(context.Context, Event) error { return errors.New("smtp down") }),
		HookFunc(func(context.Context, Event) error { panic("boom") }),
		HookFunc(func(context.Context, Event) error {
			delivered++
			return nil
		}),
	)

	hooks.Dispatch(context.TODO(), logger, Event{Type: MemberRemoved, BoardID: 3})
	is.Equal(delivered, 1)
	out := buf.String()
	is.True(strings.Contains(out, "smtp down"))
	is.True(strings.Contains(out, "panic: boom"))
}

func TestDispatchWithoutHooks(t *testing.T) {
	var hooks Hooks
	hooks.Dispatch(context.TODO(), nil, Event{Type: CardMoved})
}

func TestInvalidType(t *testing.T) {
	is := is.New(t)
	_, err := Type(0).MarshalText()
	is.True(errors.Is(err, ErrInvalidType))
	_, err = ParseType("repository_created")
	is.True(errors.Is(err, ErrInvalidType))
}
