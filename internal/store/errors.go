package store

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlaybackNotFound    = errors.New("playback state not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyParticipant  = errors.New("already a participant")
)
