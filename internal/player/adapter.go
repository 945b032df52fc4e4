// Package player defines the capability boundary around the embeddable
// third-party video player. The reconciler and the views talk only to the
// Adapter interface so player backends can be swapped out.
package player

import "errors"

type Status string

const (
	StatusUnstarted Status = "UNSTARTED"
	StatusPlaying   Status = "PLAYING"
	StatusPaused    Status = "PAUSED"
	StatusBuffering Status = "BUFFERING"
	StatusEnded     Status = "ENDED"
)

// Event is emitted on every play/pause transition of the underlying player,
// including transitions caused by the adapter's own commands. The adapter
// cannot tell a user gesture from a programmatic call.
type Event struct {
	Status   Status
	Position float64
}

var (
	// ErrNotReady is returned before the underlying player reported its
	// first status after a Load.
	ErrNotReady = errors.New("player not ready")
	ErrClosed   = errors.New("player adapter closed")
)

type Adapter interface {
	// Load tears down the current player instance and creates one for the
	// given video. Events still in flight from the old instance are dropped.
	Load(videoRef string) error
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetRate(rate float64) error
	SetVolume(volume float64) error
	Position() (float64, error)
	Duration() (float64, error)
	State() (Status, error)
	Events() <-chan Event
	Close() error
}
