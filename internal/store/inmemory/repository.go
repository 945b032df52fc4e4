// Package inmemory holds a process-local RoomStore and Notifier. It backs
// tests and single-node runs where no redis is available; change events are
// fanned out to subscribers of the same repo instance.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/watchroom/client/internal/store"
)

type Repo struct {
	mu            sync.RWMutex
	rooms         map[string]store.Room
	codes         map[string]string
	playbacks     map[string]store.PlaybackState
	participants  map[string]map[string]store.Participant
	subscriptions map[string]map[*subscription]struct{}
}

func NewRepo() *Repo {
	return &Repo{
		rooms:         make(map[string]store.Room),
		codes:         make(map[string]string),
		playbacks:     make(map[string]store.PlaybackState),
		participants:  make(map[string]map[string]store.Participant),
		subscriptions: make(map[string]map[*subscription]struct{}),
	}
}

func (r *Repo) SetRoom(ctx context.Context, params *store.SetRoomParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[params.Id] = store.Room{
		Id:              params.Id,
		Code:            params.Code,
		Name:            params.Name,
		Description:     params.Description,
		HostId:          params.HostId,
		MaxParticipants: params.MaxParticipants,
		IsActive:        true,
		CreatedAt:       params.CreatedAt,
	}
	r.codes[params.Code] = params.Id

	return nil
}

func (r *Repo) GetRoom(ctx context.Context, roomId string) (store.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomId]
	if !ok {
		return store.Room{}, store.ErrRoomNotFound
	}

	return room, nil
}

func (r *Repo) GetRoomByCode(ctx context.Context, code string) (store.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.codes[code]
	if !ok {
		return store.Room{}, store.ErrRoomNotFound
	}

	return r.rooms[roomId], nil
}

func (r *Repo) ListRoomsByHost(ctx context.Context, hostId string) ([]store.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rooms []store.Room
	for _, room := range r.rooms {
		if room.HostId == hostId && room.IsActive {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].CreatedAt > rooms[j].CreatedAt })

	return rooms, nil
}

func (r *Repo) DeactivateRoom(ctx context.Context, roomId string) error {
	r.mu.Lock()

	room, ok := r.rooms[roomId]
	if !ok {
		r.mu.Unlock()
		return store.ErrRoomNotFound
	}

	room.IsActive = false
	r.rooms[roomId] = room
	delete(r.codes, room.Code)
	r.mu.Unlock()

	r.publish(roomId, store.ChangeEvent{Kind: store.ChangeKindRoomDeactivated})

	return nil
}

func (r *Repo) AddParticipant(ctx context.Context, params *store.AddParticipantParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomParticipants, ok := r.participants[params.RoomId]
	if !ok {
		roomParticipants = make(map[string]store.Participant)
		r.participants[params.RoomId] = roomParticipants
	}

	if _, ok := roomParticipants[params.UserId]; ok {
		return store.ErrAlreadyParticipant
	}

	roomParticipants[params.UserId] = store.Participant{
		UserId:      params.UserId,
		DisplayName: params.DisplayName,
		IsHost:      params.IsHost,
		JoinedAt:    params.JoinedAt,
	}

	return nil
}

func (r *Repo) RemoveParticipant(ctx context.Context, params *store.RemoveParticipantParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomParticipants := r.participants[params.RoomId]
	if _, ok := roomParticipants[params.UserId]; !ok {
		return store.ErrParticipantNotFound
	}
	delete(roomParticipants, params.UserId)

	return nil
}

func (r *Repo) GetParticipant(ctx context.Context, roomId string, userId string) (store.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	participant, ok := r.participants[roomId][userId]
	if !ok {
		return store.Participant{}, store.ErrParticipantNotFound
	}

	return participant, nil
}

func (r *Repo) GetParticipants(ctx context.Context, roomId string) ([]store.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	participants := make([]store.Participant, 0, len(r.participants[roomId]))
	for _, participant := range r.participants[roomId] {
		participants = append(participants, participant)
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].JoinedAt < participants[j].JoinedAt })

	return participants, nil
}

func (r *Repo) GetPlayback(ctx context.Context, roomId string) (store.PlaybackState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playback, ok := r.playbacks[roomId]
	if !ok {
		return store.PlaybackState{}, store.ErrPlaybackNotFound
	}

	return playback, nil
}

func (r *Repo) UpdatePlayback(ctx context.Context, params *store.UpdatePlaybackParams) error {
	r.mu.Lock()

	var old *store.PlaybackState
	if prev, ok := r.playbacks[params.RoomId]; ok {
		old = &prev
	}

	playback := store.PlaybackState{
		VideoRef:  params.VideoRef,
		Position:  params.Position,
		IsPlaying: params.IsPlaying,
		UpdatedAt: params.UpdatedAt,
	}
	r.playbacks[params.RoomId] = playback
	r.mu.Unlock()

	r.publish(params.RoomId, store.ChangeEvent{
		Kind: store.ChangeKindPlaybackUpdated,
		Old:  old,
		New:  &playback,
	})

	return nil
}
