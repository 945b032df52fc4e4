package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/watchroom/client/internal/store"
)

func (r repo) GetPlayback(ctx context.Context, roomId string) (store.PlaybackState, error) {
	playbackKey := r.getPlaybackKey(roomId)
	res, err := r.rc.Exists(ctx, playbackKey).Result()
	if err != nil {
		return store.PlaybackState{}, fmt.Errorf("failed to check if playback exists: %w", err)
	}
	if res == 0 {
		return store.PlaybackState{}, store.ErrPlaybackNotFound
	}

	var playback store.PlaybackState
	if err := r.rc.HGetAll(ctx, playbackKey).Scan(&playback); err != nil {
		return store.PlaybackState{}, fmt.Errorf("failed to get playback: %w", err)
	}

	r.rc.Expire(ctx, playbackKey, r.expireDuration)

	return playback, nil
}

// UpdatePlayback overwrites the playback record and publishes an {old, new}
// change event to the room channel. Last write wins; there is no compare-and-set.
func (r repo) UpdatePlayback(ctx context.Context, params *store.UpdatePlaybackParams) error {
	playbackKey := r.getPlaybackKey(params.RoomId)

	var old *store.PlaybackState
	res, err := r.rc.Exists(ctx, playbackKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if playback exists: %w", err)
	}
	if res > 0 {
		var prev store.PlaybackState
		if err := r.rc.HGetAll(ctx, playbackKey).Scan(&prev); err != nil {
			return fmt.Errorf("failed to get previous playback: %w", err)
		}
		old = &prev
	}

	playback := store.PlaybackState{
		VideoRef:  params.VideoRef,
		Position:  params.Position,
		IsPlaying: params.IsPlaying,
		UpdatedAt: params.UpdatedAt,
	}

	event := store.ChangeEvent{
		Kind: store.ChangeKindPlaybackUpdated,
		Old:  old,
		New:  &playback,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, playbackKey, playback)
	pipe.Expire(ctx, playbackKey, r.expireDuration)
	pipe.Publish(ctx, r.getEventsChannel(params.RoomId), payload)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to update playback: %w", err)
	}

	return nil
}
