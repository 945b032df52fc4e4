package rooms

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/watchroom/client/internal/store"
	"github.com/watchroom/client/pkg/randstr"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrPermissionDenied = errors.New("permission denied")
)

const roomCodeLength = 6

type iStore interface {
	SetRoom(context.Context, *store.SetRoomParams) error
	GetRoom(ctx context.Context, roomId string) (store.Room, error)
	GetRoomByCode(ctx context.Context, code string) (store.Room, error)
	ListRoomsByHost(ctx context.Context, hostId string) ([]store.Room, error)
	DeactivateRoom(ctx context.Context, roomId string) error
	AddParticipant(context.Context, *store.AddParticipantParams) error
	RemoveParticipant(context.Context, *store.RemoveParticipantParams) error
	GetParticipants(ctx context.Context, roomId string) ([]store.Participant, error)
	GetParticipant(ctx context.Context, roomId string, userId string) (store.Participant, error)
	GetPlayback(ctx context.Context, roomId string) (store.PlaybackState, error)
	UpdatePlayback(context.Context, *store.UpdatePlaybackParams) error
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	MembersLimit int
}

type service struct {
	store        iStore
	generator    iGenerator
	membersLimit int
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(roomStore iStore, cfg *Config, logger *slog.Logger) *service {
	// codes get read aloud and typed; I/1 and O/0 are left out
	letterBytes := []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

	return &service{
		store:        roomStore,
		generator:    randstr.New(letterBytes),
		membersLimit: cfg.MembersLimit,
		logger:       logger,
		now:          time.Now,
	}
}
