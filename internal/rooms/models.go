package rooms

type Room struct {
	Id              string `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	HostId          string `json:"host_id"`
	MaxParticipants int    `json:"max_participants"`
	CreatedAt       int64  `json:"created_at"`
}

type Participant struct {
	UserId      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

type Playback struct {
	VideoRef  string  `json:"video_ref"`
	Position  float64 `json:"position"`
	IsPlaying bool    `json:"is_playing"`
	UpdatedAt int64   `json:"updated_at"`
}

// RoomSnapshot is the full view of a room a client renders on entry.
type RoomSnapshot struct {
	Room         Room          `json:"room"`
	Participants []Participant `json:"participants"`
	Playback     Playback      `json:"playback"`
}
