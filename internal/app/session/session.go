/*
Package session maintains the per-connection session contexts.

Each browser session maps to one Session object carrying its identity manager
and room controller. Sessions live in a TTL cache keyed by the cookie token;
an expired or unknown token simply yields a fresh NotJoined session, which is
the start of a new client-session identity lifecycle.
*/
package session

import (
	"time"

	"emberchat/internal/app/identity"
	"emberchat/internal/app/room"
	"emberchat/internal/app/store"
	"emberchat/internal/pkg/randx"

	gocache "github.com/patrickmn/go-cache"
)

// Session is the explicit per-connection context object: one identity, one
// room controller, one cookie token.
type Session struct {
	Token      string
	Identity   *identity.Manager
	Controller *room.Controller
	CreatedAt  time.Time
}

// Registry holds all live sessions for this process.
type Registry struct {
	cache    *gocache.Cache
	messages store.MessageStore
	profiles store.ProfileStore
}

// NewRegistry creates a session registry. Sessions idle out after ttl;
// expired entries are purged every ten minutes.
func NewRegistry(messages store.MessageStore, profiles store.ProfileStore, ttl time.Duration) *Registry {
	return &Registry{
		cache:    gocache.New(ttl, 10*time.Minute),
		messages: messages,
		profiles: profiles,
	}
}

// Create mints a new session with a fresh token and a NotJoined controller.
func (r *Registry) Create() (*Session, error) {
	token, err := randx.SessionToken()
	if err != nil {
		return nil, err
	}

	// The identity lifecycle starts at session creation, not at first join:
	// state responses carry the user id before the join form is submitted.
	id := identity.NewManager(r.profiles)
	id.EnsureIdentity()

	sess := &Session{
		Token:      token,
		Identity:   id,
		Controller: room.NewController(id, r.messages),
		CreatedAt:  time.Now(),
	}

	r.cache.Set(token, sess, gocache.DefaultExpiration)

	return sess, nil
}

// Get looks up the session for the given token. Access refreshes the TTL so
// an active session does not expire mid-conversation.
func (r *Registry) Get(token string) (*Session, bool) {
	if !randx.IsValidSessionToken(token) {
		return nil, false
	}

	cached, found := r.cache.Get(token)
	if !found {
		return nil, false
	}

	sess := cached.(*Session)
	r.cache.Set(token, sess, gocache.DefaultExpiration)

	return sess, true
}
