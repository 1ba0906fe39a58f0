/*
Package memory provides in-memory implementations of the store contracts.

They mirror the PostgreSQL behavior closely enough to stand in for it in
tests: a logical server clock assigns monotonic timestamps, insertion order
breaks ties, unresolved timestamps are filtered from reads, and read/write
failures can be injected to simulate outages.
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"emberchat/internal/app/store"
)

// base is the fixed origin of the logical server clock.
var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Messages is an in-memory MessageStore.
type Messages struct {
	mu      sync.Mutex
	seq     int64
	clock   time.Time
	step    time.Duration
	records []store.Message

	writeErr error
	readErr  error
}

// NewMessages creates an empty in-memory message store whose logical clock
// advances one millisecond per write.
func NewMessages() *Messages {
	return &Messages{
		clock: base,
		step:  time.Millisecond,
	}
}

// SetTimestampStep changes how far the logical clock advances per write.
// A zero step makes subsequent writes collide on the same server timestamp,
// which exercises the insertion-order tiebreak.
func (m *Messages) SetTimestampStep(step time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = step
}

// FailWrites makes Append return err until cleared with nil.
func (m *Messages) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// FailReads makes List return err until cleared with nil.
func (m *Messages) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// Append validates the text locally, then commits the record with a
// store-assigned id and server timestamp.
func (m *Messages) Append(ctx context.Context, msg store.Message) error {
	if err := store.CheckText(msg.Text); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}

	m.seq++
	msg.ID = m.seq
	m.clock = m.clock.Add(m.step)
	msg.Timestamp = m.clock
	m.records = append(m.records, msg)

	return nil
}

// AppendPending inserts a record whose server timestamp has not resolved yet.
// List must never surface it until ResolvePending is called.
func (m *Messages) AppendPending(msg store.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	msg.ID = m.seq
	msg.Timestamp = time.Time{}
	m.records = append(m.records, msg)
}

// ResolvePending assigns server timestamps to all pending records in
// insertion order, as the remote store would at commit time.
func (m *Messages) ResolvePending() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].Timestamp.IsZero() {
			m.clock = m.clock.Add(m.step)
			m.records[i].Timestamp = m.clock
		}
	}
}

// List returns resolved records sorted by server timestamp, then insertion id.
func (m *Messages) List(ctx context.Context) ([]store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readErr != nil {
		return nil, m.readErr
	}

	out := make([]store.Message, 0, len(m.records))
	for _, msg := range m.records {
		if msg.Timestamp.IsZero() {
			continue
		}
		out = append(out, msg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// Profiles is an in-memory ProfileStore.
type Profiles struct {
	mu       sync.Mutex
	clock    time.Time
	byID     map[string]store.Profile
	order    []string
	writeErr error
	readErr  error
}

// NewProfiles creates an empty in-memory profile store.
func NewProfiles() *Profiles {
	return &Profiles{
		clock: base,
		byID:  make(map[string]store.Profile),
	}
}

// FailWrites makes Upsert return err until cleared with nil.
func (p *Profiles) FailWrites(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeErr = err
}

// FailReads makes List return err until cleared with nil.
func (p *Profiles) FailReads(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

// Upsert merges the profile under its UserID. JoinedAt is assigned on first
// insert only and preserved on updates, matching the SQL upsert.
func (p *Profiles) Upsert(ctx context.Context, profile store.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writeErr != nil {
		return p.writeErr
	}

	if existing, ok := p.byID[profile.UserID]; ok {
		existing.DisplayName = profile.DisplayName
		existing.Avatar = profile.Avatar
		p.byID[profile.UserID] = existing
		return nil
	}

	p.clock = p.clock.Add(time.Millisecond)
	profile.JoinedAt = p.clock
	p.byID[profile.UserID] = profile
	p.order = append(p.order, profile.UserID)

	return nil
}

// List returns all profiles in join order.
func (p *Profiles) List(ctx context.Context) ([]store.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.readErr != nil {
		return nil, p.readErr
	}

	out := make([]store.Profile, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}

	return out, nil
}
