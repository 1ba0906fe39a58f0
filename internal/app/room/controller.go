/*
Package room orchestrates the single shared chat room on the client side.

This file defines the Controller, the per-session state machine gating the UI
between NotJoined and Joined. Joining persists the profile via the identity
manager; sending routes text into the message store. There is no leave
transition: ending the session is the only exit.
*/
package room

import (
	"context"
	"errors"
	"sync"

	"emberchat/internal/app/identity"
	"emberchat/internal/app/store"
	"emberchat/internal/pkg/logx"

	"github.com/rs/zerolog"
)

// State is the join state of one session.
type State int

const (
	// NotJoined is the initial state; sending is rejected.
	NotJoined State = iota

	// Joined is reached after a successful profile upsert.
	Joined
)

// String returns the wire representation of the state.
func (s State) String() string {
	if s == Joined {
		return "joined"
	}
	return "not_joined"
}

// ErrNotJoined rejects a send attempted while the session is NotJoined.
var ErrNotJoined = errors.New("session has not joined the room")

// Controller is the per-session room state machine.
type Controller struct {
	mu    sync.Mutex
	state State

	identity *identity.Manager
	messages store.MessageStore
	logger   zerolog.Logger
}

// NewController creates a controller in the NotJoined state.
func NewController(id *identity.Manager, messages store.MessageStore) *Controller {
	return &Controller{
		identity: id,
		messages: messages,
		logger:   logx.Logger().With().Str("component", "room_controller").Logger(),
	}
}

// State returns the session's current join state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Join validates and persists the submitted profile, transitioning to Joined
// on success. On persistence failure the state reverts to NotJoined while the
// session identity is retained, so a retry reuses the same user id. A
// validation failure is rejected before any store interaction and leaves the
// current state untouched: an already-joined session that re-submits an
// invalid form stays joined.
func (c *Controller) Join(ctx context.Context, displayName, avatar string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	profile, err := c.identity.Join(ctx, displayName, avatar)
	if err != nil {
		if errors.Is(err, identity.ErrDisplayNameRequired) || errors.Is(err, identity.ErrAvatarInvalid) {
			return err
		}
		c.state = NotJoined
		return err
	}

	c.state = Joined
	c.logger.Info().
		Str("user_id", profile.UserID).
		Str("display_name", profile.DisplayName).
		Msg("Session joined the room.")

	return nil
}

// Send appends a message tagged with the session identity.
// Only reachable from the Joined state; validation failures and store
// failures are surfaced to the caller and never change the join state.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state != Joined {
		c.mu.Unlock()
		return ErrNotJoined
	}
	userID, displayName, avatar := c.identity.Identity()
	c.mu.Unlock()

	return c.messages.Append(ctx, store.Message{
		UserID:      userID,
		DisplayName: displayName,
		Avatar:      avatar,
		Text:        text,
	})
}

// Identity exposes the session identity for rendering.
func (c *Controller) Identity() (userID, displayName, avatar string) {
	return c.identity.Identity()
}
