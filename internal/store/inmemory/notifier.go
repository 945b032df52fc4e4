package inmemory

import (
	"context"
	"sync"

	"github.com/watchroom/client/internal/store"
)

type subscription struct {
	repo      *Repo
	roomId    string
	events    chan store.ChangeEvent
	closeOnce sync.Once
}

func (r *Repo) Subscribe(ctx context.Context, roomId string) (store.Subscription, error) {
	sub := &subscription{
		repo:   r,
		roomId: roomId,
		events: make(chan store.ChangeEvent, 16),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.subscriptions[roomId]
	if !ok {
		subs = make(map[*subscription]struct{})
		r.subscriptions[roomId] = subs
	}
	subs[sub] = struct{}{}

	return sub, nil
}

// publish fans the event out under the read lock. Close deregisters and
// closes the channel under the write lock, so a send can never race a close.
func (r *Repo) publish(roomId string, event store.ChangeEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for sub := range r.subscriptions[roomId] {
		// slow subscribers lose events rather than block the writer
		select {
		case sub.events <- event:
		default:
		}
	}
}

func (s *subscription) Events() <-chan store.ChangeEvent {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.repo.mu.Lock()
		delete(s.repo.subscriptions[s.roomId], s)
		close(s.events)
		s.repo.mu.Unlock()
	})
	return nil
}
