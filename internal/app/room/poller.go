/*
Package room orchestrates the single shared chat room on the client side.

This file defines the Poller, the fixed-interval sync loop. Every tick
re-reads the full message list and refreshes the roster (gated by its own
TTL), then republishes a complete Snapshot: the rendered view is a pure
function of current store contents, with no diffing against previous state.
*/
package room

import (
	"context"
	"sync"
	"time"

	"emberchat/internal/app/roster"
	"emberchat/internal/app/store"
	"emberchat/internal/pkg/logx"

	"github.com/rs/zerolog"
)

// Snapshot is one full projection of the room: the ordered message list,
// the roster, and the failure side channel of the poll that produced it.
type Snapshot struct {
	Messages []store.Message
	Roster   []store.Profile

	// Err carries the most recent poll failure. Messages and Roster then
	// hold the last-known good data so rendering degrades instead of halting.
	Err error

	// PolledAt is when this snapshot was taken (local clock, display only).
	PolledAt time.Time
}

// Poller drives the poll-driven sync loop at a fixed cadence.
type Poller struct {
	messages store.MessageStore
	roster   *roster.Cache
	interval time.Duration
	logger   zerolog.Logger

	mu   sync.RWMutex
	snap Snapshot
}

// NewPoller creates a poller over the given stores ticking at interval.
func NewPoller(messages store.MessageStore, rosterCache *roster.Cache, interval time.Duration) *Poller {
	return &Poller{
		messages: messages,
		roster:   rosterCache,
		interval: interval,
		logger:   logx.Logger().With().Str("component", "poller").Logger(),
	}
}

// Run polls immediately, then on every tick until ctx is canceled.
// The loop's lifetime is bound to the process; poll failures are recorded on
// the snapshot and never stop the loop.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Dur("interval", p.interval).Msg("Sync loop started.")

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			p.logger.Info().Msg("Sync loop stopped.")
			return
		}
	}
}

// poll performs one refresh cycle and publishes the resulting snapshot.
func (p *Poller) poll(ctx context.Context) {
	next := Snapshot{PolledAt: time.Now()}

	messages, err := p.messages.List(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Message list read failed. Keeping last-known messages.")
		next.Err = err

		p.mu.RLock()
		next.Messages = p.snap.Messages
		p.mu.RUnlock()
	} else {
		next.Messages = messages
	}

	users, err := p.roster.Users(ctx)
	if err != nil && next.Err == nil {
		next.Err = err
	}
	// A failed roster refresh already degraded to the stale snapshot.
	next.Roster = users

	p.mu.Lock()
	p.snap = next
	p.mu.Unlock()
}

// Snapshot returns the most recently published projection.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}
