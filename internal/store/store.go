package store

import "context"

type ChangeKind string

const (
	ChangeKindPlaybackUpdated ChangeKind = "PLAYBACK_UPDATED"
	ChangeKindRoomDeactivated ChangeKind = "ROOM_DEACTIVATED"
)

// ChangeEvent carries the old and new values of a changed room record.
// Delivery is at-least-once with no ordering guarantee across writers.
type ChangeEvent struct {
	Kind ChangeKind     `json:"kind"`
	Old  *PlaybackState `json:"old"`
	New  *PlaybackState `json:"new"`
}

// Subscription is a live change feed for one room. Close is idempotent;
// Events is closed after Close returns.
type Subscription interface {
	Events() <-chan ChangeEvent
	Close() error
}

type RoomStore interface {
	// room
	SetRoom(context.Context, *SetRoomParams) error
	GetRoom(ctx context.Context, roomId string) (Room, error)
	GetRoomByCode(ctx context.Context, code string) (Room, error)
	ListRoomsByHost(ctx context.Context, hostId string) ([]Room, error)
	DeactivateRoom(ctx context.Context, roomId string) error
	// participant
	AddParticipant(context.Context, *AddParticipantParams) error
	RemoveParticipant(context.Context, *RemoveParticipantParams) error
	GetParticipants(ctx context.Context, roomId string) ([]Participant, error)
	GetParticipant(ctx context.Context, roomId string, userId string) (Participant, error)
	// playback
	GetPlayback(ctx context.Context, roomId string) (PlaybackState, error)
	UpdatePlayback(context.Context, *UpdatePlaybackParams) error
}

type Notifier interface {
	Subscribe(ctx context.Context, roomId string) (Subscription, error)
}
