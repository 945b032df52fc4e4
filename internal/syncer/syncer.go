// Package syncer keeps one room's authoritative playback record and the
// local player consistent. It turns local gestures and player transitions
// into record writes, applies remote change notifications to the player,
// and suppresses the echo between the two directions.
package syncer

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/watchroom/client/internal/player"
	"github.com/watchroom/client/internal/store"
)

type Mode string

const (
	ModeIdle           Mode = "IDLE"
	ModeApplyingRemote Mode = "APPLYING_REMOTE"
)

const (
	DefaultTolerance         = 2.5
	DefaultSuppressionWindow = 1750 * time.Millisecond
)

type iPlaybackStore interface {
	UpdatePlayback(context.Context, *store.UpdatePlaybackParams) error
}

type Config struct {
	// Tolerance is the position divergence, in seconds, below which no
	// seek is issued.
	Tolerance float64
	// SuppressionWindow is how long local triggers stay suppressed after
	// remote-originated player commands. It must exceed the player's own
	// event-emission latency for those commands.
	SuppressionWindow time.Duration
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.Tolerance <= 0 {
		out.Tolerance = DefaultTolerance
	}
	if out.SuppressionWindow <= 0 {
		out.SuppressionWindow = DefaultSuppressionWindow
	}
	return out
}

type Reconciler struct {
	roomId        string
	adapter       player.Adapter
	playbackStore iPlaybackStore
	cfg           Config
	logger        *slog.Logger
	now           func() time.Time

	mode          Mode
	suppressUntil time.Time
	// echoGuardUntil suppresses adapter events briefly after the reconciler
	// itself commanded the player on behalf of a local intent, so one
	// gesture does not produce a second write when the player reacts.
	echoGuardUntil time.Time
	lastAppliedAt  int64
	videoRef       string

	notices chan Notice
}

func NewReconciler(roomId string, adapter player.Adapter, playbackStore iPlaybackStore, cfg *Config, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		roomId:        roomId,
		adapter:       adapter,
		playbackStore: playbackStore,
		cfg:           cfg.withDefaults(),
		logger:        logger,
		now:           time.Now,
		mode:          ModeIdle,
		notices:       make(chan Notice, 8),
	}
}

// Notices is the stream of user-visible failure reports.
func (r *Reconciler) Notices() <-chan Notice {
	return r.notices
}

// Mode reports the current reconciler mode, lazily returning to Idle once
// the suppression window has expired.
func (r *Reconciler) Mode() Mode {
	if r.mode == ModeApplyingRemote && !r.now().Before(r.suppressUntil) {
		r.mode = ModeIdle
	}
	return r.mode
}

// Run drains events until the channel closes or ctx is done. All events of
// one reconciler flow through one channel, so processing is strictly
// sequential; that ordering is what makes the mode guard correct.
func (r *Reconciler) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			r.Handle(ctx, event)
		}
	}
}

// Handle processes one inbound event. It is not safe for concurrent use;
// callers must serialize, normally by feeding Run.
func (r *Reconciler) Handle(ctx context.Context, event Event) {
	switch ev := event.(type) {
	case LocalIntent:
		r.handleLocalIntent(ctx, ev)
	case AdapterEvent:
		r.handleAdapterEvent(ctx, ev)
	case RemoteNotification:
		r.handleRemoteNotification(ctx, ev)
	}
}

func (r *Reconciler) handleLocalIntent(ctx context.Context, intent LocalIntent) {
	if r.Mode() != ModeIdle {
		r.logger.DebugContext(ctx, "local intent suppressed while applying remote", "room_id", r.roomId, "kind", intent.Kind)
		return
	}

	position, err := r.adapter.Position()
	if err != nil && intent.Kind != IntentLoadVideo {
		r.logger.DebugContext(ctx, "skipping local intent, player position unavailable", "room_id", r.roomId, "kind", intent.Kind, "error", err)
		return
	}

	params := store.UpdatePlaybackParams{
		RoomId:    r.roomId,
		VideoRef:  r.videoRef,
		Position:  position,
		UpdatedAt: r.now().UnixMilli(),
	}

	var command func() error
	switch intent.Kind {
	case IntentPlay:
		params.IsPlaying = true
		command = r.adapter.Play
	case IntentPause:
		params.IsPlaying = false
		command = r.adapter.Pause
	case IntentSeek:
		params.Position = intent.Seconds
		params.IsPlaying = r.localPlaying()
		command = func() error { return r.adapter.Seek(intent.Seconds) }
	case IntentLoadVideo:
		params.VideoRef = intent.VideoRef
		params.Position = 0
		params.IsPlaying = false
		command = func() error { return r.adapter.Load(intent.VideoRef) }
	default:
		return
	}

	// The durable record is written up front; the UI may already reflect
	// the intended state without waiting for the notification round-trip.
	if err := r.writePlayback(ctx, &params); err != nil {
		return
	}
	if intent.Kind == IntentLoadVideo {
		r.videoRef = intent.VideoRef
	}

	if err := command(); err != nil {
		r.logger.InfoContext(ctx, "player command failed", "room_id", r.roomId, "kind", intent.Kind, "error", err)
		return
	}
	r.echoGuardUntil = r.now().Add(r.cfg.SuppressionWindow)
}

func (r *Reconciler) handleAdapterEvent(ctx context.Context, event AdapterEvent) {
	if event.Status != player.StatusPlaying && event.Status != player.StatusPaused {
		return
	}
	if r.Mode() != ModeIdle {
		r.logger.DebugContext(ctx, "adapter event suppressed while applying remote", "room_id", r.roomId, "status", event.Status)
		return
	}
	if r.now().Before(r.echoGuardUntil) {
		r.logger.DebugContext(ctx, "adapter event suppressed as command echo", "room_id", r.roomId, "status", event.Status)
		return
	}

	// a bare transition is a user acting on the player's native controls
	r.writePlayback(ctx, &store.UpdatePlaybackParams{
		RoomId:    r.roomId,
		VideoRef:  r.videoRef,
		Position:  event.Position,
		IsPlaying: event.Status == player.StatusPlaying,
		UpdatedAt: r.now().UnixMilli(),
	})
}

func (r *Reconciler) handleRemoteNotification(ctx context.Context, notification RemoteNotification) {
	remote := notification.New
	if remote == nil {
		return
	}
	if remote.UpdatedAt < r.lastAppliedAt {
		r.logger.DebugContext(ctx, "discarding stale notification", "room_id", r.roomId, "updated_at", remote.UpdatedAt, "last_applied_at", r.lastAppliedAt)
		return
	}
	r.lastAppliedAt = remote.UpdatedAt

	videoChanged := remote.VideoRef != r.videoRef
	playChanged := remote.IsPlaying != r.localPlaying()

	position, err := r.adapter.Position()
	positionDiverged := err != nil || math.Abs(position-remote.Position) > r.cfg.Tolerance

	if !videoChanged && !playChanged && !positionDiverged {
		return
	}

	now := r.now()
	r.mode = ModeApplyingRemote
	r.suppressUntil = now.Add(r.cfg.SuppressionWindow)

	if videoChanged {
		if err := r.adapter.Load(remote.VideoRef); err != nil {
			r.logger.InfoContext(ctx, "failed to load remote video", "room_id", r.roomId, "video_ref", remote.VideoRef, "error", err)
			r.mode = ModeIdle
			return
		}
		r.videoRef = remote.VideoRef
		// a fresh instance starts at zero
		positionDiverged = remote.Position > r.cfg.Tolerance
	}

	if positionDiverged {
		if err := r.adapter.Seek(remote.Position); err != nil {
			r.logger.InfoContext(ctx, "failed to seek to remote position", "room_id", r.roomId, "position", remote.Position, "error", err)
			r.mode = ModeIdle
			return
		}
	}

	if videoChanged || playChanged {
		command := r.adapter.Pause
		if remote.IsPlaying {
			command = r.adapter.Play
		}
		if err := command(); err != nil {
			r.logger.InfoContext(ctx, "failed to apply remote play state", "room_id", r.roomId, "is_playing", remote.IsPlaying, "error", err)
			r.mode = ModeIdle
			return
		}
	}
}

func (r *Reconciler) localPlaying() bool {
	status, err := r.adapter.State()
	if err != nil {
		return false
	}
	return status == player.StatusPlaying
}

func (r *Reconciler) writePlayback(ctx context.Context, params *store.UpdatePlaybackParams) error {
	if err := r.playbackStore.UpdatePlayback(ctx, params); err != nil {
		r.logger.InfoContext(ctx, "failed to write playback state", "room_id", r.roomId, "error", err)
		r.notify(Notice{Code: NoticeCodeWriteFailed, Message: "failed to update the room, try again"})
		return err
	}
	return nil
}

func (r *Reconciler) notify(notice Notice) {
	select {
	case r.notices <- notice:
	default:
	}
}
