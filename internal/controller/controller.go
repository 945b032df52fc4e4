package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/watchroom/client/internal/rooms"
	"github.com/watchroom/client/internal/store"
	"github.com/watchroom/client/internal/syncer"
	"github.com/watchroom/client/pkg/validator"
)

type iRoomsService interface {
	CreateRoom(context.Context, *rooms.CreateRoomParams) (rooms.CreateRoomResponse, error)
	JoinRoom(context.Context, *rooms.JoinRoomParams) (rooms.JoinRoomResponse, error)
	LeaveRoom(context.Context, *rooms.LeaveRoomParams) error
	DeactivateRoom(context.Context, *rooms.DeactivateRoomParams) error
	ListMyRooms(ctx context.Context, hostId string) ([]rooms.Room, error)
	GetRoomSnapshot(context.Context, *rooms.GetRoomSnapshotParams) (rooms.RoomSnapshot, error)
}

type iPlaybackStore interface {
	GetPlayback(ctx context.Context, roomId string) (store.PlaybackState, error)
	UpdatePlayback(context.Context, *store.UpdatePlaybackParams) error
}

type controller struct {
	roomsService  iRoomsService
	playbackStore iPlaybackStore
	notifier      store.Notifier
	syncConfig    *syncer.Config
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
}

func NewController(roomsService iRoomsService, playbackStore iPlaybackStore, notifier store.Notifier, syncConfig *syncer.Config, logger *slog.Logger) *controller {
	return &controller{
		roomsService:  roomsService,
		playbackStore: playbackStore,
		notifier:      notifier,
		syncConfig:    syncConfig,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
