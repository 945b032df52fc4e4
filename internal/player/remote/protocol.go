package remote

import "github.com/watchroom/client/internal/player"

const (
	commandLoad      = "PLAYER_LOAD"
	commandPlay      = "PLAYER_PLAY"
	commandPause     = "PLAYER_PAUSE"
	commandSeek      = "PLAYER_SEEK"
	commandSetRate   = "PLAYER_SET_RATE"
	commandSetVolume = "PLAYER_SET_VOLUME"
)

type command struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type loadPayload struct {
	VideoRef   string `json:"video_ref"`
	Generation uint64 `json:"generation"`
}

type seekPayload struct {
	Seconds float64 `json:"seconds"`
}

type ratePayload struct {
	Rate float64 `json:"rate"`
}

type volumePayload struct {
	Volume float64 `json:"volume"`
}

// StatusReport is the periodic state snapshot the embedded player sends
// back over the bridge. Generation identifies the player instance the
// report came from.
type StatusReport struct {
	Generation uint64        `json:"generation"`
	Status     player.Status `json:"status"`
	Position   float64       `json:"position"`
	Rate       float64       `json:"rate"`
	Duration   float64       `json:"duration"`
}
