package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/watchroom/client/internal/store"
)

func (r repo) SetRoom(ctx context.Context, params *store.SetRoomParams) error {
	room := store.Room{
		Id:              params.Id,
		Code:            params.Code,
		Name:            params.Name,
		Description:     params.Description,
		HostId:          params.HostId,
		MaxParticipants: params.MaxParticipants,
		IsActive:        true,
		CreatedAt:       params.CreatedAt,
	}

	pipe := r.rc.TxPipeline()

	roomKey := r.getRoomKey(params.Id)
	pipe.HSet(ctx, roomKey, room)
	pipe.Expire(ctx, roomKey, r.expireDuration)

	codeKey := r.getRoomCodeKey(params.Code)
	pipe.Set(ctx, codeKey, params.Id, r.expireDuration)

	hostRoomsKey := r.getHostRoomsKey(params.HostId)
	pipe.ZAdd(ctx, hostRoomsKey, goredis.Z{Score: float64(params.CreatedAt), Member: params.Id})
	pipe.Expire(ctx, hostRoomsKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (store.Room, error) {
	roomKey := r.getRoomKey(roomId)
	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return store.Room{}, fmt.Errorf("failed to check if room exists: %w", err)
	}
	if res == 0 {
		return store.Room{}, store.ErrRoomNotFound
	}

	var room store.Room
	if err := r.rc.HGetAll(ctx, roomKey).Scan(&room); err != nil {
		return store.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return room, nil
}

func (r repo) GetRoomByCode(ctx context.Context, code string) (store.Room, error) {
	roomId, err := r.rc.Get(ctx, r.getRoomCodeKey(code)).Result()
	if err != nil {
		if err == goredis.Nil {
			return store.Room{}, store.ErrRoomNotFound
		}
		return store.Room{}, fmt.Errorf("failed to resolve room code: %w", err)
	}

	return r.GetRoom(ctx, roomId)
}

func (r repo) ListRoomsByHost(ctx context.Context, hostId string) ([]store.Room, error) {
	// newest first
	roomIds, err := r.rc.ZRevRange(ctx, r.getHostRoomsKey(hostId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list host rooms: %w", err)
	}

	rooms := make([]store.Room, 0, len(roomIds))
	for _, roomId := range roomIds {
		room, err := r.GetRoom(ctx, roomId)
		if err != nil {
			if err == store.ErrRoomNotFound {
				continue
			}
			return nil, err
		}
		if room.IsActive {
			rooms = append(rooms, room)
		}
	}

	return rooms, nil
}

func (r repo) DeactivateRoom(ctx context.Context, roomId string) error {
	room, err := r.GetRoom(ctx, roomId)
	if err != nil {
		return err
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getRoomKey(roomId), "is_active", false)
	pipe.Del(ctx, r.getRoomCodeKey(room.Code))

	event := store.ChangeEvent{Kind: store.ChangeKindRoomDeactivated}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	pipe.Publish(ctx, r.getEventsChannel(roomId), payload)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to deactivate room: %w", err)
	}

	return nil
}
