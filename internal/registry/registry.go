package registry

import (
	"fmt"
	"sync"

	"github.com/gameroomlabs/tictactoe-rooms/internal/apperror"
	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
	"github.com/gameroomlabs/tictactoe-rooms/internal/pkg"
)

// defaultSymbol goes to the first player joining an empty room; the second
// joiner always receives the complement of the occupant's symbol.
const defaultSymbol = entity.PlayerO

// Registry is the single source of truth for which rooms exist and who
// occupies them. It knows nothing about game rules. The registry mutex only
// guards the room map; every roster mutation additionally takes the room's
// own lock, so operations on different rooms never contend.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string]*entity.Room),
	}
}

// CreateRoom - allocates a new room with an empty roster and a fresh game
// state. Never fails.
func (that *Registry) CreateRoom() string {
	room := entity.NewRoom(pkg.GenerateRoomID())

	that.mu.Lock()
	that.rooms[room.ID] = room
	that.mu.Unlock()

	return room.ID
}

func (that *Registry) GetRoomByID(roomID string) (*entity.Room, error) {
	that.mu.RLock()
	room, ok := that.rooms[roomID]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	return room, nil
}

func (that *Registry) IsRoomFull(roomID string) (bool, error) {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return false, err
	}

	room.Lock()
	defer room.Unlock()

	return room.IsFull(), nil
}

func (that *Registry) IsRoomEmpty(roomID string) (bool, error) {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return false, err
	}

	room.Lock()
	defer room.Unlock()

	return room.IsEmpty(), nil
}

// AddPlayerToRoom - admits a player into the room, assigning the symbol not
// held by the existing occupant. The duplicate check runs before the
// capacity check so a member re-joining a full room gets the precise error.
func (that *Registry) AddPlayerToRoom(roomID, playerID, name string) (*entity.Player, error) {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	if room.PlayerByID(playerID) != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerAlreadyJoined, playerID)
	}

	if room.IsFull() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomFull, roomID)
	}

	symbol := defaultSymbol
	if len(room.Players) > 0 {
		symbol = oppositeSymbol(room.Players[0].Symbol)
	}

	player := &entity.Player{
		ID:     playerID,
		Name:   name,
		Symbol: symbol,
	}
	room.Players = append(room.Players, player)

	return player, nil
}

// RemovePlayerFromRoom - drops the matching player from the roster; a miss
// is not an error.
func (that *Registry) RemovePlayerFromRoom(roomID, playerID string) error {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()

	remaining := room.Players[:0]
	for _, player := range room.Players {
		if player.ID != playerID {
			remaining = append(remaining, player)
		}
	}
	room.Players = remaining

	return nil
}

// DeleteRoom - removes the room entirely; idempotent.
func (that *Registry) DeleteRoom(roomID string) {
	that.mu.Lock()
	delete(that.rooms, roomID)
	that.mu.Unlock()
}

// Players - the roster in join order.
func (that *Registry) Players(roomID string) ([]*entity.Player, error) {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	players := make([]*entity.Player, len(room.Players))
	copy(players, room.Players)

	return players, nil
}

// PlayersWithoutID - the roster with connection ids stripped, for
// broadcasting to clients who must not see transport identifiers of peers.
func (that *Registry) PlayersWithoutID(roomID string) ([]entity.PublicPlayer, error) {
	players, err := that.Players(roomID)
	if err != nil {
		return nil, err
	}

	public := make([]entity.PublicPlayer, 0, len(players))
	for _, player := range players {
		public = append(public, player.Public())
	}

	return public, nil
}

// Opponent - the other occupant, or nil when the player is alone.
func (that *Registry) Opponent(roomID, playerID string) (*entity.Player, error) {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	return room.Opponent(playerID), nil
}

func (that *Registry) GetPlayer(roomID, playerID string) (*entity.Player, error) {
	room, err := that.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, playerID)
	}

	return player, nil
}

// RoomIDByPlayerID - reverse lookup from connection id to room. A linear
// scan is fine at this scale; rooms are few and short-lived.
func (that *Registry) RoomIDByPlayerID(playerID string) (string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for roomID, room := range that.rooms {
		room.Lock()
		found := room.PlayerByID(playerID) != nil
		room.Unlock()

		if found {
			return roomID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", apperror.ErrPlayerNotInAnyRoom, playerID)
}

func oppositeSymbol(symbol string) string {
	if symbol == entity.PlayerX {
		return entity.PlayerO
	}

	return entity.PlayerX
}
