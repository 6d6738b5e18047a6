package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Hook receives events after the transaction that produced them commits.
type Hook interface {
	Handle(ctx context.Context, e Event) error
}

// HookFunc adapts a function to a Hook.
type HookFunc func(ctx context.Context, e Event) error

// Handle implements Hook.
func (f HookFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Hooks is an ordered, concurrency-safe list of hooks.
type Hooks struct {
	mu    sync.RWMutex
	hooks []Hook
}

// Add appends hooks to the list.
func (h *Hooks) Add(hooks ...Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hooks...)
}

// Len returns the number of registered hooks.
func (h *Hooks) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.hooks)
}

// Dispatch delivers every event to every hook in order. Hook errors and
// panics are logged and never reach the caller.
func (h *Hooks) Dispatch(ctx context.Context, logger *log.Logger, events ...Event) {
	h.mu.RLock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.RUnlock()

	for _, e := range events {
		for _, hook := range hooks {
			if err := safeHandle(ctx, hook, e); err != nil && logger != nil {
				logger.Error("event hook failed", "event", e.Type, "board", e.BoardID, "err", err)
			}
		}
	}
}

func safeHandle(ctx context.Context, hook Hook, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return hook.Handle(ctx, e)
}
