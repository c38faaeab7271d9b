package entity

import "sync"

// MaxPlayers is the fixed room capacity.
const MaxPlayers = 2

// Room is one two-player session: the roster in join order plus the owned
// game state. The embedded mutex is the room's contention domain: every
// read-modify-write on roster or game state happens under it. The helper
// methods below assume the caller holds the lock.
type Room struct {
	ID      string
	Players []*Player
	Game    *GameState

	mu sync.Mutex
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Players: make([]*Player, 0, MaxPlayers),
		Game:    NewGameState(),
	}
}

func (that *Room) Lock() {
	that.mu.Lock()
}

func (that *Room) Unlock() {
	that.mu.Unlock()
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

// PlayerByID returns the occupant with the given connection id, or nil.
func (that *Room) PlayerByID(playerID string) *Player {
	for _, player := range that.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

// Opponent returns the occupant other than the given connection id, or nil.
func (that *Room) Opponent(playerID string) *Player {
	for _, player := range that.Players {
		if player.ID != playerID {
			return player
		}
	}

	return nil
}
