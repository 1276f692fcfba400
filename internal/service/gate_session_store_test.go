package service

import (
	"context"
	"testing"
	"time"

	"onboarding_backend/internal/model"
	"onboarding_backend/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGateSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGateSessionStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	got, err := store.Get(ctx, "a1", "m1")
	require.NoError(t, err)
	assert.Nil(t, got)

	session := &GateSession{
		AssignmentID: "a1",
		ModuleID:     "m1",
		ModuleType:   model.ModuleVideo,
		Video:        &progression.VideoState{MaxWatchedSeconds: 12},
	}
	require.NoError(t, store.Save(ctx, session))

	// callers get their own copy
	session.Video.MaxWatchedSeconds = 99
	got, err = store.Get(ctx, "a1", "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12.0, got.Video.MaxWatchedSeconds)
	got.Video.MaxWatchedSeconds = 50
	again, _ := store.Get(ctx, "a1", "m1")
	assert.Equal(t, 12.0, again.Video.MaxWatchedSeconds)

	now = now.Add(2 * time.Minute)
	got, err = store.Get(ctx, "a1", "m1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired sessions are not returned")
}

func TestMemoryGateSessionStore_SweepAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGateSessionStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &GateSession{AssignmentID: "a1", ModuleID: "m1"}))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Save(ctx, &GateSession{AssignmentID: "a1", ModuleID: "m2"}))
	require.NoError(t, store.Save(ctx, &GateSession{AssignmentID: "a2", ModuleID: "m1"}))

	require.NoError(t, store.Delete(ctx, "a2", "m1"))
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	got, _ := store.Get(ctx, "a1", "m2")
	assert.NotNil(t, got)
}

func TestGateSessionKey(t *testing.T) {
	assert.Equal(t, "training:gate:a1:m1", gateSessionKey("a1", "m1"))
}
