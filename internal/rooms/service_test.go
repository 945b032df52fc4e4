package rooms

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/client/internal/store/inmemory"
)

func newTestService() *service {
	return NewService(inmemory.NewRepo(), &Config{MembersLimit: 3}, slog.Default())
}

func TestCreateAndJoinRoom(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	createResp, err := service.CreateRoom(ctx, &CreateRoomParams{
		HostId:   "host",
		HostName: "Alice",
		Name:     "movie night",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, createResp.Room.Id, "room id is empty")
	assert.Len(t, createResp.Room.Code, roomCodeLength)
	assert.Equal(t, createResp.Room.Code, strings.ToUpper(createResp.Room.Code), "room code must be upper case")
	assert.False(t, strings.ContainsAny(createResp.Room.Code, "IO01"), "room code must avoid ambiguous glyphs, got %s", createResp.Room.Code)
	assert.Equal(t, 3, createResp.Room.MaxParticipants)

	// codes are matched case-insensitively
	joinResp, err := service.JoinRoom(ctx, &JoinRoomParams{
		UserId:      "guest",
		DisplayName: "Bob",
		Code:        strings.ToLower(createResp.Room.Code),
	})
	require.NoError(t, err)
	assert.Equal(t, createResp.Room.Id, joinResp.Room.Id)
	require.Len(t, joinResp.Participants, 2)
	assert.True(t, joinResp.Participants[0].IsHost, "host must be listed first")
	assert.Equal(t, "Alice", joinResp.Participants[0].DisplayName)
}

func TestJoinRoomTwiceIsNoOp(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	createResp, err := service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "movie night"})
	require.NoError(t, err)

	joinParams := JoinRoomParams{UserId: "guest", DisplayName: "Bob", Code: createResp.Room.Code}
	_, err = service.JoinRoom(ctx, &joinParams)
	require.NoError(t, err)

	joinResp, err := service.JoinRoom(ctx, &joinParams)
	require.NoError(t, err)
	assert.Len(t, joinResp.Participants, 2, "rejoining must not duplicate the participant")
}

func TestJoinUnknownRoom(t *testing.T) {
	service := newTestService()

	_, err := service.JoinRoom(context.Background(), &JoinRoomParams{UserId: "guest", DisplayName: "Bob", Code: "ZZZZZZ"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinFullRoom(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	createResp, err := service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "movie night", MaxParticipants: 2})
	require.NoError(t, err)

	_, err = service.JoinRoom(ctx, &JoinRoomParams{UserId: "guest1", DisplayName: "Bob", Code: createResp.Room.Code})
	require.NoError(t, err)

	_, err = service.JoinRoom(ctx, &JoinRoomParams{UserId: "guest2", DisplayName: "Carol", Code: createResp.Room.Code})
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestLeaveRoomIsIdempotent(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	createResp, err := service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "movie night"})
	require.NoError(t, err)
	_, err = service.JoinRoom(ctx, &JoinRoomParams{UserId: "guest", DisplayName: "Bob", Code: createResp.Room.Code})
	require.NoError(t, err)

	leaveParams := LeaveRoomParams{RoomId: createResp.Room.Id, UserId: "guest"}
	require.NoError(t, service.LeaveRoom(ctx, &leaveParams))
	require.NoError(t, service.LeaveRoom(ctx, &leaveParams), "leaving twice must not fail")

	snapshot, err := service.GetRoomSnapshot(ctx, &GetRoomSnapshotParams{Code: createResp.Room.Code, UserId: "host"})
	require.NoError(t, err)
	assert.Len(t, snapshot.Participants, 1)
}

func TestDeactivateRoomIsHostOnly(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	createResp, err := service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "movie night"})
	require.NoError(t, err)
	_, err = service.JoinRoom(ctx, &JoinRoomParams{UserId: "guest", DisplayName: "Bob", Code: createResp.Room.Code})
	require.NoError(t, err)

	err = service.DeactivateRoom(ctx, &DeactivateRoomParams{RoomId: createResp.Room.Id, SenderId: "guest"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, service.DeactivateRoom(ctx, &DeactivateRoomParams{RoomId: createResp.Room.Id, SenderId: "host"}))

	// a deactivated room no longer resolves by code
	_, err = service.JoinRoom(ctx, &JoinRoomParams{UserId: "late", DisplayName: "Dan", Code: createResp.Room.Code})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestListMyRoomsNewestFirst(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	_, err := service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "first"})
	require.NoError(t, err)
	_, err = service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "second"})
	require.NoError(t, err)

	_, err = service.CreateRoom(ctx, &CreateRoomParams{HostId: "other", HostName: "Eve", Name: "not mine"})
	require.NoError(t, err)

	roomList, err := service.ListMyRooms(ctx, "host")
	require.NoError(t, err)
	require.Len(t, roomList, 2)
	assert.GreaterOrEqual(t, roomList[0].CreatedAt, roomList[1].CreatedAt)
}

func TestSnapshotRequiresParticipation(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	createResp, err := service.CreateRoom(ctx, &CreateRoomParams{HostId: "host", HostName: "Alice", Name: "movie night"})
	require.NoError(t, err)

	_, err = service.GetRoomSnapshot(ctx, &GetRoomSnapshotParams{Code: createResp.Room.Code, UserId: "stranger"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
