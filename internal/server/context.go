package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/teemow/gcalskill/internal/reminders"
)

// SnapshotInfo describes the reminder snapshot currently served.
type SnapshotInfo struct {
	Days      int
	Reminders int
	LoadedAt  time.Time
}

// ServerContext ties the reminder store to the lifetime of the process.
// Its context is the base context of every skill request, so cancelling it
// reaches in-flight handlers.
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	store   *reminders.Store
	stopped atomic.Bool
}

// NewServerContext derives a cancellable context from ctx for store.
func NewServerContext(ctx context.Context, store *reminders.Store) *ServerContext {
	ctx, cancel := context.WithCancel(ctx)
	return &ServerContext{ctx: ctx, cancel: cancel, store: store}
}

func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Snapshot reads the current store. Without a store it is the zero value.
func (sc *ServerContext) Snapshot() SnapshotInfo {
	if sc.store == nil {
		return SnapshotInfo{}
	}
	groups := sc.store.Groups()
	return SnapshotInfo{
		Days:      groups.Len(),
		Reminders: groups.Count(),
		LoadedAt:  sc.store.LoadedAt(),
	}
}

func (sc *ServerContext) IsShutdown() bool {
	return sc.stopped.Load()
}

// Shutdown cancels the context. Calling it again is a no-op.
func (sc *ServerContext) Shutdown() error {
	if sc.stopped.CompareAndSwap(false, true) {
		sc.cancel()
	}
	return nil
}
