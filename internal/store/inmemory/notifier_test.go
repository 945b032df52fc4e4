package inmemory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/client/internal/store"
)

func TestSubscribeReceivesPlaybackUpdates(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	sub, err := repo.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, repo.UpdatePlayback(ctx, &store.UpdatePlaybackParams{
		RoomId:    "room-1",
		VideoRef:  "abc123",
		Position:  10,
		IsPlaying: true,
		UpdatedAt: 100,
	}))

	select {
	case event := <-sub.Events():
		assert.Equal(t, store.ChangeKindPlaybackUpdated, event.Kind)
		require.NotNil(t, event.New)
		assert.Equal(t, "abc123", event.New.VideoRef)
	case <-time.After(time.Second):
		t.Fatal("expected a playback change event")
	}
}

// One participant tearing their subscription down while another participant's
// write fans out must neither race nor panic the writer.
func TestCloseDuringPublish(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		sub, err := repo.Subscribe(ctx, "room-1")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.UpdatePlayback(ctx, &store.UpdatePlaybackParams{
				RoomId:    "room-1",
				VideoRef:  "abc123",
				Position:  float64(i),
				IsPlaying: true,
				UpdatedAt: int64(i),
			})
		}()
		go func() {
			defer wg.Done()
			_ = sub.Close()
		}()
		wg.Wait()
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	repo := NewRepo()
	ctx := context.Background()

	sub, err := repo.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close(), "closing twice must not fail")

	require.NoError(t, repo.UpdatePlayback(ctx, &store.UpdatePlaybackParams{
		RoomId:    "room-1",
		VideoRef:  "abc123",
		UpdatedAt: 100,
	}))

	// the channel is closed and drained, not fed
	_, open := <-sub.Events()
	assert.False(t, open)
}
