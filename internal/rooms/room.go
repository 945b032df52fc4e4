package rooms

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/watchroom/client/internal/store"
)

type CreateRoomParams struct {
	HostId          string
	HostName        string
	Name            string
	Description     string
	MaxParticipants int
}

type CreateRoomResponse struct {
	Room Room
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	roomId := uuid.NewString()
	code := s.generator.GenerateRandomString(roomCodeLength)
	now := s.now().UnixMilli()

	maxParticipants := params.MaxParticipants
	if maxParticipants <= 0 || maxParticipants > s.membersLimit {
		maxParticipants = s.membersLimit
	}

	if err := s.store.SetRoom(ctx, &store.SetRoomParams{
		Id:              roomId,
		Code:            code,
		Name:            params.Name,
		Description:     params.Description,
		HostId:          params.HostId,
		MaxParticipants: maxParticipants,
		CreatedAt:       now,
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to set room: %w", err)
	}

	if err := s.store.AddParticipant(ctx, &store.AddParticipantParams{
		RoomId:      roomId,
		UserId:      params.HostId,
		DisplayName: params.HostName,
		IsHost:      true,
		JoinedAt:    now,
	}); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to add host participant: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_id", roomId, "code", code, "host_id", params.HostId)

	return CreateRoomResponse{Room: Room{
		Id:              roomId,
		Code:            code,
		Name:            params.Name,
		Description:     params.Description,
		HostId:          params.HostId,
		MaxParticipants: maxParticipants,
		CreatedAt:       now,
	}}, nil
}

type JoinRoomParams struct {
	UserId      string
	DisplayName string
	Code        string
}

type JoinRoomResponse struct {
	Room         Room
	Participants []Participant
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	room, err := s.getActiveRoomByCode(ctx, params.Code)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	// joining a room twice is a no-op, not an error
	if _, err := s.store.GetParticipant(ctx, room.Id, params.UserId); err == nil {
		return s.joinResponse(ctx, room)
	} else if err != store.ErrParticipantNotFound {
		return JoinRoomResponse{}, fmt.Errorf("failed to check participant: %w", err)
	}

	participants, err := s.store.GetParticipants(ctx, room.Id)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get participants: %w", err)
	}
	if len(participants) >= room.MaxParticipants {
		return JoinRoomResponse{}, ErrRoomFull
	}

	if err := s.store.AddParticipant(ctx, &store.AddParticipantParams{
		RoomId:      room.Id,
		UserId:      params.UserId,
		DisplayName: params.DisplayName,
		JoinedAt:    s.now().UnixMilli(),
	}); err != nil && err != store.ErrAlreadyParticipant {
		return JoinRoomResponse{}, fmt.Errorf("failed to add participant: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined room", "room_id", room.Id, "user_id", params.UserId)

	return s.joinResponse(ctx, room)
}

func (s service) joinResponse(ctx context.Context, room store.Room) (JoinRoomResponse, error) {
	participants, err := s.participantList(ctx, room.Id)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	return JoinRoomResponse{Room: toRoom(room), Participants: participants}, nil
}

type LeaveRoomParams struct {
	RoomId string
	UserId string
}

// LeaveRoom removes the participant record. Leaving a room the user is not
// in, including leaving twice, is a no-op.
func (s service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) error {
	if err := s.store.RemoveParticipant(ctx, &store.RemoveParticipantParams{
		RoomId: params.RoomId,
		UserId: params.UserId,
	}); err != nil {
		if err == store.ErrParticipantNotFound {
			return nil
		}
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	s.logger.InfoContext(ctx, "member left room", "room_id", params.RoomId, "user_id", params.UserId)

	return nil
}

type DeactivateRoomParams struct {
	RoomId   string
	SenderId string
}

func (s service) DeactivateRoom(ctx context.Context, params *DeactivateRoomParams) error {
	room, err := s.store.GetRoom(ctx, params.RoomId)
	if err != nil {
		if err == store.ErrRoomNotFound {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.HostId != params.SenderId {
		return ErrPermissionDenied
	}

	if err := s.store.DeactivateRoom(ctx, params.RoomId); err != nil {
		return fmt.Errorf("failed to deactivate room: %w", err)
	}

	s.logger.InfoContext(ctx, "room deactivated", "room_id", params.RoomId)

	return nil
}

// ListMyRooms returns the caller's active hosted rooms, newest first.
func (s service) ListMyRooms(ctx context.Context, hostId string) ([]Room, error) {
	storeRooms, err := s.store.ListRoomsByHost(ctx, hostId)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms by host: %w", err)
	}

	roomList := make([]Room, 0, len(storeRooms))
	for _, room := range storeRooms {
		roomList = append(roomList, toRoom(room))
	}
	slices.SortFunc(roomList, func(a, b Room) int {
		return int(b.CreatedAt - a.CreatedAt)
	})

	return roomList, nil
}

type GetRoomSnapshotParams struct {
	Code   string
	UserId string
}

func (s service) GetRoomSnapshot(ctx context.Context, params *GetRoomSnapshotParams) (RoomSnapshot, error) {
	room, err := s.getActiveRoomByCode(ctx, params.Code)
	if err != nil {
		return RoomSnapshot{}, err
	}

	if _, err := s.store.GetParticipant(ctx, room.Id, params.UserId); err != nil {
		if err == store.ErrParticipantNotFound {
			return RoomSnapshot{}, ErrPermissionDenied
		}
		return RoomSnapshot{}, fmt.Errorf("failed to check participant: %w", err)
	}

	participants, err := s.participantList(ctx, room.Id)
	if err != nil {
		return RoomSnapshot{}, err
	}

	var playback Playback
	if state, err := s.store.GetPlayback(ctx, room.Id); err == nil {
		playback = Playback{
			VideoRef:  state.VideoRef,
			Position:  state.Position,
			IsPlaying: state.IsPlaying,
			UpdatedAt: state.UpdatedAt,
		}
	} else if err != store.ErrPlaybackNotFound {
		return RoomSnapshot{}, fmt.Errorf("failed to get playback: %w", err)
	}

	return RoomSnapshot{
		Room:         toRoom(room),
		Participants: participants,
		Playback:     playback,
	}, nil
}

func (s service) getActiveRoomByCode(ctx context.Context, code string) (store.Room, error) {
	room, err := s.store.GetRoomByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if err == store.ErrRoomNotFound {
			return store.Room{}, ErrRoomNotFound
		}
		return store.Room{}, fmt.Errorf("failed to get room by code: %w", err)
	}
	if !room.IsActive {
		return store.Room{}, ErrRoomNotFound
	}

	return room, nil
}

func (s service) participantList(ctx context.Context, roomId string) ([]Participant, error) {
	storeParticipants, err := s.store.GetParticipants(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	participants := make([]Participant, 0, len(storeParticipants))
	for _, participant := range storeParticipants {
		participants = append(participants, Participant{
			UserId:      participant.UserId,
			DisplayName: participant.DisplayName,
			IsHost:      participant.IsHost,
		})
	}
	// host first, then join order
	slices.SortStableFunc(participants, func(a, b Participant) int {
		switch {
		case a.IsHost == b.IsHost:
			return 0
		case a.IsHost:
			return -1
		default:
			return 1
		}
	})

	return participants, nil
}

func toRoom(room store.Room) Room {
	return Room{
		Id:              room.Id,
		Code:            room.Code,
		Name:            room.Name,
		Description:     room.Description,
		HostId:          room.HostId,
		MaxParticipants: room.MaxParticipants,
		CreatedAt:       room.CreatedAt,
	}
}
