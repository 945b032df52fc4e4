package syncer

import (
	"github.com/watchroom/client/internal/player"
	"github.com/watchroom/client/internal/store"
)

// Event is the single inbound type of the reconciler: a user gesture, a
// transition reported by the local player, or a change notification for the
// authoritative record.
type Event interface {
	isSyncEvent()
}

type IntentKind string

const (
	IntentPlay      IntentKind = "PLAY"
	IntentPause     IntentKind = "PAUSE"
	IntentSeek      IntentKind = "SEEK"
	IntentLoadVideo IntentKind = "LOAD_VIDEO"
)

type LocalIntent struct {
	Kind IntentKind
	// Seconds is the absolute target offset for IntentSeek.
	Seconds float64
	// VideoRef is the extracted video id for IntentLoadVideo.
	VideoRef string
}

type AdapterEvent struct {
	Status   player.Status
	Position float64
}

type RemoteNotification struct {
	Old *store.PlaybackState
	New *store.PlaybackState
}

func (LocalIntent) isSyncEvent()        {}
func (AdapterEvent) isSyncEvent()       {}
func (RemoteNotification) isSyncEvent() {}

// Notice is a user-visible failure report. Failed writes are surfaced and
// dropped; the next action or notification resynchronizes state.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	NoticeCodeWriteFailed = "WRITE_FAILED"
)
