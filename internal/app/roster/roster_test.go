package roster_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"emberchat/internal/app/roster"
	"emberchat/internal/app/store"
	"emberchat/internal/app/store/memory"

	"github.com/stretchr/testify/require"
)

func TestUsersServesCachedSnapshotWithinTTL(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()
	require.NoError(t, profiles.Upsert(ctx, store.Profile{UserID: "u1", DisplayName: "Ann", Avatar: "🌟"}))

	cache := roster.New(profiles, time.Minute)

	first, err := cache.Users(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Store changes within the TTL must not be visible.
	require.NoError(t, profiles.Upsert(ctx, store.Profile{UserID: "u2", DisplayName: "Bo", Avatar: "🤖"}))

	second, err := cache.Users(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestUsersRefreshesAfterTTL(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()
	require.NoError(t, profiles.Upsert(ctx, store.Profile{UserID: "u1", DisplayName: "Ann", Avatar: "🌟"}))

	cache := roster.New(profiles, 30*time.Millisecond)

	first, err := cache.Users(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, profiles.Upsert(ctx, store.Profile{UserID: "u2", DisplayName: "Bo", Avatar: "🤖"}))

	time.Sleep(60 * time.Millisecond)

	refreshed, err := cache.Users(ctx)
	require.NoError(t, err)
	require.Len(t, refreshed, 2, "a call past the TTL must reflect store changes")
}

func TestFailedRefreshServesStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()
	require.NoError(t, profiles.Upsert(ctx, store.Profile{UserID: "u1", DisplayName: "Ann", Avatar: "🌟"}))

	cache := roster.New(profiles, 30*time.Millisecond)

	first, err := cache.Users(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	time.Sleep(60 * time.Millisecond)

	outage := errors.New("store unavailable")
	profiles.FailReads(outage)

	stale, err := cache.Users(ctx)
	require.ErrorIs(t, err, outage)
	require.Equal(t, first, stale, "failed refresh keeps the previous snapshot available")
}

func TestFailedFirstRefreshReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfiles()

	outage := errors.New("store unavailable")
	profiles.FailReads(outage)

	cache := roster.New(profiles, time.Minute)

	users, err := cache.Users(ctx)
	require.ErrorIs(t, err, outage)
	require.Empty(t, users)
}

func TestWithoutSelfFiltersCaller(t *testing.T) {
	all := []store.Profile{
		{UserID: "u1", DisplayName: "Ann"},
		{UserID: "u2", DisplayName: "Bo"},
	}

	visible := roster.WithoutSelf(all, "u1")
	require.Len(t, visible, 1)
	require.Equal(t, "u2", visible[0].UserID)

	require.Len(t, roster.WithoutSelf(all, "unknown"), 2)
	require.Empty(t, roster.WithoutSelf(nil, "u1"))
}
