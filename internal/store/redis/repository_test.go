package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/client/internal/store"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, time.Hour)
}

func setRoom(t *testing.T, r *repo, roomId, code, hostId string, createdAt int64) {
	t.Helper()
	require.NoError(t, r.SetRoom(context.Background(), &store.SetRoomParams{
		Id:              roomId,
		Code:            code,
		Name:            "movie night",
		HostId:          hostId,
		MaxParticipants: 5,
		CreatedAt:       createdAt,
	}))
}

func TestRoomRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	setRoom(t, r, "room-1", "ABC123", "host", 100)

	room, err := r.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.Id)
	assert.Equal(t, "ABC123", room.Code)
	assert.Equal(t, "movie night", room.Name)
	assert.Equal(t, "host", room.HostId)
	assert.Equal(t, 5, room.MaxParticipants)
	assert.True(t, room.IsActive)
	assert.Equal(t, int64(100), room.CreatedAt)

	byCode, err := r.GetRoomByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, room, byCode)

	_, err = r.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
	_, err = r.GetRoomByCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
}

func TestListRoomsByHostNewestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	setRoom(t, r, "room-1", "AAAAAA", "host", 100)
	setRoom(t, r, "room-2", "BBBBBB", "host", 200)
	setRoom(t, r, "room-3", "CCCCCC", "other", 300)

	rooms, err := r.ListRoomsByHost(ctx, "host")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "room-2", rooms[0].Id)
	assert.Equal(t, "room-1", rooms[1].Id)
}

func TestDeactivateRoomInvalidatesCode(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	setRoom(t, r, "room-1", "ABC123", "host", 100)

	sub, err := r.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, r.DeactivateRoom(ctx, "room-1"))

	room, err := r.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	assert.False(t, room.IsActive)

	_, err = r.GetRoomByCode(ctx, "ABC123")
	assert.ErrorIs(t, err, store.ErrRoomNotFound)

	// deactivated rooms drop out of the host listing
	rooms, err := r.ListRoomsByHost(ctx, "host")
	require.NoError(t, err)
	assert.Empty(t, rooms)

	select {
	case event := <-sub.Events():
		assert.Equal(t, store.ChangeKindRoomDeactivated, event.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a room deactivation event")
	}
}

func TestParticipantLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddParticipant(ctx, &store.AddParticipantParams{
		RoomId: "room-1", UserId: "host", DisplayName: "Alice", IsHost: true, JoinedAt: 100,
	}))
	require.NoError(t, r.AddParticipant(ctx, &store.AddParticipantParams{
		RoomId: "room-1", UserId: "guest", DisplayName: "Bob", JoinedAt: 200,
	}))

	err := r.AddParticipant(ctx, &store.AddParticipantParams{
		RoomId: "room-1", UserId: "guest", DisplayName: "Bob", JoinedAt: 300,
	})
	assert.ErrorIs(t, err, store.ErrAlreadyParticipant)

	participants, err := r.GetParticipants(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "host", participants[0].UserId, "participants must come back in join order")
	assert.True(t, participants[0].IsHost)
	assert.Equal(t, "guest", participants[1].UserId)

	require.NoError(t, r.RemoveParticipant(ctx, &store.RemoveParticipantParams{RoomId: "room-1", UserId: "guest"}))
	err = r.RemoveParticipant(ctx, &store.RemoveParticipantParams{RoomId: "room-1", UserId: "guest"})
	assert.ErrorIs(t, err, store.ErrParticipantNotFound)

	participants, err = r.GetParticipants(ctx, "room-1")
	require.NoError(t, err)
	assert.Len(t, participants, 1)
}

func TestUpdatePlaybackPublishesChange(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	sub, err := r.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	defer sub.Close()

	_, err = r.GetPlayback(ctx, "room-1")
	require.ErrorIs(t, err, store.ErrPlaybackNotFound)

	require.NoError(t, r.UpdatePlayback(ctx, &store.UpdatePlaybackParams{
		RoomId:    "room-1",
		VideoRef:  "abc123",
		Position:  42.5,
		IsPlaying: true,
		UpdatedAt: 100,
	}))

	playback, err := r.GetPlayback(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "abc123", playback.VideoRef)
	assert.Equal(t, 42.5, playback.Position)
	assert.True(t, playback.IsPlaying)
	assert.Equal(t, int64(100), playback.UpdatedAt)

	select {
	case event := <-sub.Events():
		assert.Equal(t, store.ChangeKindPlaybackUpdated, event.Kind)
		assert.Nil(t, event.Old, "first write has no previous state")
		require.NotNil(t, event.New)
		assert.Equal(t, playback, *event.New)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a playback change event")
	}

	require.NoError(t, r.UpdatePlayback(ctx, &store.UpdatePlaybackParams{
		RoomId:    "room-1",
		VideoRef:  "abc123",
		Position:  50,
		IsPlaying: false,
		UpdatedAt: 200,
	}))

	select {
	case event := <-sub.Events():
		require.NotNil(t, event.Old)
		assert.Equal(t, playback, *event.Old)
		require.NotNil(t, event.New)
		assert.Equal(t, int64(200), event.New.UpdatedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a second playback change event")
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	r := newTestRepo(t)

	sub, err := r.Subscribe(context.Background(), "room-1")
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
}
