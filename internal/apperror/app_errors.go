package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrPlayerAlreadyJoined = errors.New("player already joined the room")
	ErrPlayerNotFound      = errors.New("player not found in this room")
	ErrPlayerNotInAnyRoom  = errors.New("player is not in any room")

	ErrRoomNotReady    = errors.New("you need two players to start the game")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrInvalidPosition = errors.New("invalid position")
	ErrFieldOccupied   = errors.New("field is already occupied")
)
