package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/watchroom/client/internal/store"
)

func (r repo) AddParticipant(ctx context.Context, params *store.AddParticipantParams) error {
	participantKey := r.getParticipantKey(params.RoomId, params.UserId)
	res, err := r.rc.Exists(ctx, participantKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if participant exists: %w", err)
	}
	if res > 0 {
		return store.ErrAlreadyParticipant
	}

	participant := store.Participant{
		UserId:      params.UserId,
		DisplayName: params.DisplayName,
		IsHost:      params.IsHost,
		JoinedAt:    params.JoinedAt,
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, participantKey, participant)
	pipe.Expire(ctx, participantKey, r.expireDuration)

	participantsKey := r.getParticipantsKey(params.RoomId)
	pipe.ZAdd(ctx, participantsKey, goredis.Z{Score: float64(params.JoinedAt), Member: params.UserId})
	pipe.Expire(ctx, participantsKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

func (r repo) RemoveParticipant(ctx context.Context, params *store.RemoveParticipantParams) error {
	res, err := r.rc.Del(ctx, r.getParticipantKey(params.RoomId, params.UserId)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	if res == 0 {
		return store.ErrParticipantNotFound
	}

	if err := r.rc.ZRem(ctx, r.getParticipantsKey(params.RoomId), params.UserId).Err(); err != nil {
		return fmt.Errorf("failed to remove participant from list: %w", err)
	}

	return nil
}

func (r repo) GetParticipant(ctx context.Context, roomId string, userId string) (store.Participant, error) {
	participantKey := r.getParticipantKey(roomId, userId)
	res, err := r.rc.Exists(ctx, participantKey).Result()
	if err != nil {
		return store.Participant{}, fmt.Errorf("failed to check if participant exists: %w", err)
	}
	if res == 0 {
		return store.Participant{}, store.ErrParticipantNotFound
	}

	var participant store.Participant
	if err := r.rc.HGetAll(ctx, participantKey).Scan(&participant); err != nil {
		return store.Participant{}, fmt.Errorf("failed to get participant: %w", err)
	}

	r.rc.Expire(ctx, participantKey, r.expireDuration)

	return participant, nil
}

func (r repo) GetParticipants(ctx context.Context, roomId string) ([]store.Participant, error) {
	// join order
	userIds, err := r.rc.ZRange(ctx, r.getParticipantsKey(roomId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get participants list: %w", err)
	}

	participants := make([]store.Participant, 0, len(userIds))
	for _, userId := range userIds {
		participant, err := r.GetParticipant(ctx, roomId, userId)
		if err != nil {
			if err == store.ErrParticipantNotFound {
				continue
			}
			return nil, err
		}
		participants = append(participants, participant)
	}

	return participants, nil
}
