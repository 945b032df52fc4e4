// Package session owns the lifetime of one client's presence in a room:
// the change-feed subscription, the player adapter, and the reconciler
// between them. Created on join, destroyed on leave.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/watchroom/client/internal/player"
	"github.com/watchroom/client/internal/rooms"
	"github.com/watchroom/client/internal/store"
	"github.com/watchroom/client/internal/syncer"
)

var ErrPermissionDenied = errors.New("permission denied")

type iRoomsService interface {
	LeaveRoom(context.Context, *rooms.LeaveRoomParams) error
}

type iPlaybackStore interface {
	GetPlayback(ctx context.Context, roomId string) (store.PlaybackState, error)
	UpdatePlayback(context.Context, *store.UpdatePlaybackParams) error
}

type Params struct {
	RoomId        string
	UserId        string
	IsHost        bool
	Adapter       player.Adapter
	Subscription  store.Subscription
	PlaybackStore iPlaybackStore
	RoomsService  iRoomsService
	SyncConfig    *syncer.Config
	Logger        *slog.Logger
}

type Session struct {
	roomId        string
	userId        string
	isHost        bool
	adapter       player.Adapter
	sub           store.Subscription
	playbackStore iPlaybackStore
	roomsService  iRoomsService
	reconciler    *syncer.Reconciler
	logger        *slog.Logger

	intents chan syncer.LocalIntent
	closed  chan struct{}
	done    chan struct{}

	leaveOnce sync.Once
	leaveErr  error
}

func New(params *Params) *Session {
	return &Session{
		roomId:        params.RoomId,
		userId:        params.UserId,
		isHost:        params.IsHost,
		adapter:       params.Adapter,
		sub:           params.Subscription,
		playbackStore: params.PlaybackStore,
		roomsService:  params.RoomsService,
		reconciler:    syncer.NewReconciler(params.RoomId, params.Adapter, params.PlaybackStore, params.SyncConfig, params.Logger),
		logger:        params.Logger,
		intents:       make(chan syncer.LocalIntent, 8),
		closed:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Closed is signalled when the room is deactivated remotely; the view
// should route the user out of the room.
func (s *Session) Closed() <-chan struct{} {
	return s.closed
}

func (s *Session) Notices() <-chan syncer.Notice {
	return s.reconciler.Notices()
}

// Intent forwards a user gesture to the reconciler. Loading a video is a
// host-only operation.
func (s *Session) Intent(intent syncer.LocalIntent) error {
	if intent.Kind == syncer.IntentLoadVideo && !s.isHost {
		return ErrPermissionDenied
	}

	select {
	case <-s.done:
		return nil
	case s.intents <- intent:
		return nil
	}
}

// Run pumps all event sources through the reconciler one at a time and
// returns when the session is left or ctx is done. Single-channel-at-a-time
// dispatch is what guarantees the reconciler's ordering assumption.
func (s *Session) Run(ctx context.Context) {
	// prime from the current authoritative record so a late joiner
	// converges without waiting for the next write
	if state, err := s.playbackStore.GetPlayback(ctx, s.roomId); err == nil {
		s.reconciler.Handle(ctx, syncer.RemoteNotification{New: &state})
	} else if err != store.ErrPlaybackNotFound {
		s.logger.InfoContext(ctx, "failed to get initial playback state", "room_id", s.roomId, "error", err)
	}

	adapterEvents := s.adapter.Events()
	changeEvents := s.sub.Events()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case intent := <-s.intents:
			s.reconciler.Handle(ctx, intent)
		case event, ok := <-adapterEvents:
			if !ok {
				adapterEvents = nil
				continue
			}
			s.reconciler.Handle(ctx, syncer.AdapterEvent{Status: event.Status, Position: event.Position})
		case change, ok := <-changeEvents:
			if !ok {
				changeEvents = nil
				continue
			}
			if change.Kind == store.ChangeKindRoomDeactivated {
				close(s.closed)
				return
			}
			s.reconciler.Handle(ctx, syncer.RemoteNotification{Old: change.Old, New: change.New})
		}
	}
}

// Leave unsubscribes from the change feed, tears the adapter down and
// removes the participant record. It is idempotent; callbacks arriving
// after the first call are no-ops.
func (s *Session) Leave(ctx context.Context) error {
	s.leaveOnce.Do(func() {
		close(s.done)

		if err := s.sub.Close(); err != nil {
			s.logger.InfoContext(ctx, "failed to close subscription", "room_id", s.roomId, "error", err)
		}
		if err := s.adapter.Close(); err != nil {
			s.logger.InfoContext(ctx, "failed to close player adapter", "room_id", s.roomId, "error", err)
		}

		s.leaveErr = s.roomsService.LeaveRoom(ctx, &rooms.LeaveRoomParams{
			RoomId: s.roomId,
			UserId: s.userId,
		})
	})

	return s.leaveErr
}
