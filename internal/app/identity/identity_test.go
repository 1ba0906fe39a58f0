package identity_test

import (
	"context"
	"errors"
	"testing"

	"emberchat/internal/app/identity"
	"emberchat/internal/app/store/memory"

	"github.com/stretchr/testify/require"
)

func TestEnsureIdentityIsIdempotent(t *testing.T) {
	m := identity.NewManager(memory.NewProfiles())

	first := m.EnsureIdentity()
	require.NotEmpty(t, first)

	for i := 0; i < 5; i++ {
		require.Equal(t, first, m.EnsureIdentity())
	}
}

func TestDistinctSessionsGetDistinctIdentities(t *testing.T) {
	profiles := memory.NewProfiles()

	a := identity.NewManager(profiles)
	b := identity.NewManager(profiles)

	require.NotEqual(t, a.EnsureIdentity(), b.EnsureIdentity())
}

func TestJoinValidatesInput(t *testing.T) {
	ctx := context.Background()
	m := identity.NewManager(memory.NewProfiles())

	_, err := m.Join(ctx, "", "🌟")
	require.ErrorIs(t, err, identity.ErrDisplayNameRequired)

	_, err = m.Join(ctx, "   ", "🌟")
	require.ErrorIs(t, err, identity.ErrDisplayNameRequired)

	_, err = m.Join(ctx, "Ann", "🐙")
	require.ErrorIs(t, err, identity.ErrAvatarInvalid)
}

func TestJoinPersistsProfile(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()
	m := identity.NewManager(profiles)

	p, err := m.Join(ctx, "  Ann  ", "🌟")
	require.NoError(t, err)
	require.Equal(t, "Ann", p.DisplayName, "display name is trimmed before persisting")

	list, err := profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, p.UserID, list[0].UserID)

	userID, displayName, avatar := m.Identity()
	require.Equal(t, p.UserID, userID)
	require.Equal(t, "Ann", displayName)
	require.Equal(t, "🌟", avatar)
}

func TestRejoinUpdatesSingleRecord(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()
	m := identity.NewManager(profiles)

	_, err := m.Join(ctx, "Ann", "🌟")
	require.NoError(t, err)

	_, err = m.Join(ctx, "Annie", "🤖")
	require.NoError(t, err)

	list, err := profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Annie", list[0].DisplayName)
	require.Equal(t, "🤖", list[0].Avatar)
}

func TestFailedJoinRetainsIdentityForRetry(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()
	m := identity.NewManager(profiles)

	original := m.EnsureIdentity()

	outage := errors.New("store unavailable")
	profiles.FailWrites(outage)

	_, err := m.Join(ctx, "Ann", "🌟")
	require.ErrorIs(t, err, outage)

	profiles.FailWrites(nil)

	p, err := m.Join(ctx, "Ann", "🌟")
	require.NoError(t, err)
	require.Equal(t, original, p.UserID, "retry must reuse the original user id")
}

func TestIsValidAvatar(t *testing.T) {
	for _, a := range identity.Avatars {
		require.True(t, identity.IsValidAvatar(a))
	}
	require.False(t, identity.IsValidAvatar(""))
	require.False(t, identity.IsValidAvatar("🐙"))
}
