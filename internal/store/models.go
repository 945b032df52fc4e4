package store

// PlaybackState is the authoritative playback record for a room. Position is
// a snapshot taken at UpdatedAt, not a continuously ticking value.
type PlaybackState struct {
	VideoRef  string  `json:"video_ref" redis:"video_ref"`
	Position  float64 `json:"position" redis:"position"`
	IsPlaying bool    `json:"is_playing" redis:"is_playing"`
	UpdatedAt int64   `json:"updated_at" redis:"updated_at"`
}

type Room struct {
	Id              string `json:"id" redis:"id"`
	Code            string `json:"code" redis:"code"`
	Name            string `json:"name" redis:"name"`
	Description     string `json:"description" redis:"description"`
	HostId          string `json:"host_id" redis:"host_id"`
	MaxParticipants int    `json:"max_participants" redis:"max_participants"`
	IsActive        bool   `json:"is_active" redis:"is_active"`
	CreatedAt       int64  `json:"created_at" redis:"created_at"`
}

type Participant struct {
	UserId      string `json:"user_id" redis:"user_id"`
	DisplayName string `json:"display_name" redis:"display_name"`
	IsHost      bool   `json:"is_host" redis:"is_host"`
	JoinedAt    int64  `json:"joined_at" redis:"joined_at"`
}

type SetRoomParams struct {
	Id              string
	Code            string
	Name            string
	Description     string
	HostId          string
	MaxParticipants int
	CreatedAt       int64
}

type AddParticipantParams struct {
	RoomId      string
	UserId      string
	DisplayName string
	IsHost      bool
	JoinedAt    int64
}

type RemoveParticipantParams struct {
	RoomId string
	UserId string
}

type UpdatePlaybackParams struct {
	RoomId    string
	VideoRef  string
	Position  float64
	IsPlaying bool
	UpdatedAt int64
}
