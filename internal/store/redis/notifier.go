package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/watchroom/client/internal/store"
)

type subscription struct {
	pubsub    *goredis.PubSub
	events    chan store.ChangeEvent
	closeOnce sync.Once
	closeErr  error
}

// Subscribe opens a change feed for one room backed by a redis pub/sub
// channel. Messages that fail to decode are logged and dropped.
func (r repo) Subscribe(ctx context.Context, roomId string) (store.Subscription, error) {
	pubsub := r.rc.Subscribe(ctx, r.getEventsChannel(roomId))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &subscription{
		pubsub: pubsub,
		events: make(chan store.ChangeEvent, 16),
	}

	go func() {
		defer close(sub.events)
		for msg := range pubsub.Channel() {
			var event store.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Debug("dropping undecodable change event", "room_id", roomId, "error", err)
				continue
			}
			sub.events <- event
		}
	}()

	return sub, nil
}

func (s *subscription) Events() <-chan store.ChangeEvent {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.pubsub.Close()
	})
	return s.closeErr
}
