// Package session drives the two recurring timers of a play session: the
// 1-second play-time counter and the periodic autosave flush. The loop is
// single-threaded; gameplay actions arrive through the store's own
// serialization and the session only ever reads snapshots.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/michaelhills23/corgi-clicker/internal/game"
	"github.com/michaelhills23/corgi-clicker/internal/save"
)

// DefaultAutosaveInterval is the flush cadence when none is configured.
const DefaultAutosaveInterval = 30 * time.Second

// Session owns the play-time and autosave tickers for one running game.
type Session struct {
	store    *game.Store
	saves    *save.Store
	autosave time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a session. A non-positive autosave interval falls back to
// the default.
func New(store *game.Store, saves *save.Store, autosave time.Duration) *Session {
	if autosave <= 0 {
		autosave = DefaultAutosaveInterval
	}
	return &Session{
		store:    store,
		saves:    saves,
		autosave: autosave,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until Stop is called. Both tickers are stopped on every exit
// path, and a final flush runs before returning.
func (s *Session) Run() {
	defer close(s.done)

	playTime := time.NewTicker(time.Second)
	defer playTime.Stop()
	saveTicker := time.NewTicker(s.autosave)
	defer saveTicker.Stop()

	slog.Info("session started", "autosave_interval", s.autosave)

	for {
		select {
		case <-playTime.C:
			s.store.UpdatePlayTime(1)
		case <-saveTicker.C:
			s.Flush()
		case <-s.stop:
			s.Flush()
			slog.Info("session stopped")
			return
		}
	}
}

// Stop signals the loop to flush and exit. Safe to call more than once and
// from any goroutine; returns after the loop has fully wound down.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Flush persists the current state iff it changed since the last flush.
// Idempotent and always safe to run redundantly: it never mutates gameplay
// state. Save failures are logged; the in-memory state stays authoritative
// until the next successful flush.
func (s *Session) Flush() {
	if !s.store.Dirty() {
		return
	}
	snap, gen := s.store.FlushSnapshot()
	if err := s.saves.Save(snap); err != nil {
		slog.Error("autosave failed", "error", err)
		return
	}
	s.store.MarkFlushed(gen)
}
