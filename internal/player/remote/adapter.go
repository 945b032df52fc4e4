// Package remote drives the embedded player in the browser page over the
// room websocket: commands go out as typed messages, the page reports state
// transitions and periodic status snapshots back in.
package remote

import (
	"sync"
	"time"

	"github.com/watchroom/client/internal/player"
)

type wsSender interface {
	WriteJSON(v any) error
}

type Adapter struct {
	sender wsSender
	now    func() time.Time

	mu         sync.Mutex
	generation uint64
	closed     bool
	ready      bool
	status     player.Status
	position   float64
	rate       float64
	duration   float64
	reportedAt time.Time

	events chan player.Event
}

func NewAdapter(sender wsSender) *Adapter {
	return &Adapter{
		sender: sender,
		now:    time.Now,
		status: player.StatusUnstarted,
		rate:   1,
		events: make(chan player.Event, 16),
	}
}

func (a *Adapter) send(cmd command) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return player.ErrClosed
	}

	return a.sender.WriteJSON(&cmd)
}

func (a *Adapter) Load(videoRef string) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return player.ErrClosed
	}
	// new instance: reports from the torn-down one no longer match
	a.generation++
	generation := a.generation
	a.ready = false
	a.status = player.StatusUnstarted
	a.position = 0
	a.duration = 0
	a.mu.Unlock()

	return a.sender.WriteJSON(&command{
		Type:    commandLoad,
		Payload: loadPayload{VideoRef: videoRef, Generation: generation},
	})
}

func (a *Adapter) Play() error {
	return a.send(command{Type: commandPlay})
}

func (a *Adapter) Pause() error {
	return a.send(command{Type: commandPause})
}

func (a *Adapter) Seek(seconds float64) error {
	return a.send(command{Type: commandSeek, Payload: seekPayload{Seconds: seconds}})
}

func (a *Adapter) SetRate(rate float64) error {
	return a.send(command{Type: commandSetRate, Payload: ratePayload{Rate: rate}})
}

func (a *Adapter) SetVolume(volume float64) error {
	return a.send(command{Type: commandSetVolume, Payload: volumePayload{Volume: volume}})
}

// Position extrapolates the last reported offset while the player is
// playing. Clock drift against the authoritative record is expected; the
// reconciler's tolerance absorbs it.
func (a *Adapter) Position() (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, player.ErrClosed
	}
	if !a.ready {
		return 0, player.ErrNotReady
	}

	position := a.position
	if a.status == player.StatusPlaying {
		position += a.now().Sub(a.reportedAt).Seconds() * a.rate
	}

	return position, nil
}

func (a *Adapter) Duration() (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, player.ErrClosed
	}
	if !a.ready {
		return 0, player.ErrNotReady
	}

	return a.duration, nil
}

func (a *Adapter) State() (player.Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return "", player.ErrClosed
	}

	return a.status, nil
}

func (a *Adapter) Events() <-chan player.Event {
	return a.events
}

// Deliver feeds a status report from the bridge into the adapter. Reports
// from a superseded player instance or arriving after Close are dropped.
// Play/pause transitions are forwarded to the event stream. The send stays
// under the mutex so it cannot race the close in Close.
func (a *Adapter) Deliver(report *StatusReport) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || report.Generation != a.generation {
		return
	}

	previous := a.status
	a.ready = true
	a.status = report.Status
	a.position = report.Position
	a.duration = report.Duration
	if report.Rate > 0 {
		a.rate = report.Rate
	}
	a.reportedAt = a.now()

	if report.Status == previous {
		return
	}
	if report.Status != player.StatusPlaying && report.Status != player.StatusPaused &&
		report.Status != player.StatusBuffering && report.Status != player.StatusEnded {
		return
	}

	select {
	case a.events <- player.Event{Status: report.Status, Position: report.Position}:
	default:
	}
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	close(a.events)

	return nil
}
