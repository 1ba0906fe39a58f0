/*
Package identity manages the per-session chat identity.

A session owns exactly one opaque user id, generated lazily on first use and
never regenerated for the lifetime of the session. Joining persists the
profile record; a failed join keeps the id so a retry reuses the same
identity instead of minting a duplicate.
*/
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"emberchat/internal/app/store"
	"emberchat/internal/pkg/randx"
)

// Avatars is the fixed set of symbols a user may pick from when joining.
var Avatars = []string{"🧑‍🚀", "🤖", "👻", "🎉", "🌟", "👾", "🦊", "🥸"}

var (
	// ErrDisplayNameRequired rejects a join with an empty display name after trimming.
	ErrDisplayNameRequired = errors.New("display name is required")

	// ErrAvatarInvalid rejects a join whose avatar is not in the supported set.
	ErrAvatarInvalid = errors.New("avatar is not in the supported set")
)

// IsValidAvatar reports whether the given symbol belongs to the Avatars set.
func IsValidAvatar(avatar string) bool {
	for _, a := range Avatars {
		if a == avatar {
			return true
		}
	}
	return false
}

// Manager owns one session's identity and persists its profile record.
type Manager struct {
	mu          sync.Mutex
	userID      string
	displayName string
	avatar      string

	profiles store.ProfileStore
}

// NewManager creates an identity manager bound to the given profile store.
func NewManager(profiles store.ProfileStore) *Manager {
	return &Manager{profiles: profiles}
}

// EnsureIdentity returns the session's user id, generating it on first call.
// Idempotent: repeated calls never regenerate an existing id.
func (m *Manager) EnsureIdentity() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ensureIdentityLocked()
}

func (m *Manager) ensureIdentityLocked() string {
	if m.userID == "" {
		m.userID = randx.UserID()
	}
	return m.userID
}

// Join validates the submitted display name and avatar, then upserts the
// profile record keyed by the session's user id. JoinedAt is assigned by the
// store's server clock. On persistence failure the error is returned and the
// already-generated user id is retained, so a retry reuses the same identity.
func (m *Manager) Join(ctx context.Context, displayName, avatar string) (store.Profile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return store.Profile{}, ErrDisplayNameRequired
	}
	if !IsValidAvatar(avatar) {
		return store.Profile{}, ErrAvatarInvalid
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	profile := store.Profile{
		UserID:      m.ensureIdentityLocked(),
		DisplayName: displayName,
		Avatar:      avatar,
	}

	if err := m.profiles.Upsert(ctx, profile); err != nil {
		return store.Profile{}, err
	}

	m.displayName = displayName
	m.avatar = avatar

	return profile, nil
}

// Identity returns the session's user id, display name, and avatar.
// Display name and avatar are empty until a join has succeeded.
func (m *Manager) Identity() (userID, displayName, avatar string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.userID, m.displayName, m.avatar
}
