package pkg

import "github.com/google/uuid"

// GenerateRoomID - allocates an opaque identifier for a new room.
func GenerateRoomID() string {
	return uuid.NewString()
}

// GenerateConnectionID - allocates an identifier for a new client connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
