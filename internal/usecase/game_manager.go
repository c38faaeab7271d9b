package usecase

import (
	"fmt"
	"log/slog"

	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
)

type roomRegistry interface {
	CreateRoom() string
	AddPlayerToRoom(roomID, playerID, name string) (*entity.Player, error)
	RemovePlayerFromRoom(roomID, playerID string) error
	DeleteRoom(roomID string)
	IsRoomEmpty(roomID string) (bool, error)
	Players(roomID string) ([]*entity.Player, error)
	Opponent(roomID, playerID string) (*entity.Player, error)
	RoomIDByPlayerID(playerID string) (string, error)
}

type gameEngine interface {
	GameState(roomID string) (*entity.GameState, error)
	MakeMove(roomID, playerID string, position int) (*entity.GameState, error)
	ResetGameByRoomID(roomID string) (*entity.GameState, error)
}

// GameManager coordinates the registry and the engine on behalf of the
// transport layer: it turns inbound join/move/disconnect requests into
// broadcast-ready results.
type GameManager struct {
	logger *slog.Logger
	rooms  roomRegistry
	engine gameEngine
}

func NewGameManager(logger *slog.Logger, rooms roomRegistry, engine gameEngine) *GameManager {
	return &GameManager{
		logger: logger,
		rooms:  rooms,
		engine: engine,
	}
}

// JoinResult is everything the transport needs after an admitted join: the
// new player's seat, the existing occupant to notify (if any), and the full
// game state once both seats are filled.
type JoinResult struct {
	RoomID   string
	Player   *entity.Player
	Opponent *entity.Player
	State    *entity.GameState
}

// MoveResult carries the post-move state and the room to broadcast it to.
type MoveResult struct {
	RoomID string
	State  *entity.GameState
}

// DisconnectResult names the surviving opponent and the post-reset state;
// the transport gets nil when the room is gone and nobody is left to tell.
type DisconnectResult struct {
	RoomID   string
	Opponent *entity.Player
	State    *entity.GameState
}

func (that *GameManager) CreateRoom() string {
	roomID := that.rooms.CreateRoom()

	that.logger.Info("room created", "roomID", roomID)

	return roomID
}

func (that *GameManager) JoinRoom(roomID, playerID, name string) (*JoinResult, error) {
	player, err := that.rooms.AddPlayerToRoom(roomID, playerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to add player to room: %w", err)
	}

	result := &JoinResult{
		RoomID: roomID,
		Player: player,
	}

	opponent, err := that.rooms.Opponent(roomID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get opponent: %w", err)
	}

	if opponent != nil {
		state, err := that.engine.GameState(roomID)
		if err != nil {
			return nil, fmt.Errorf("failed to get game state: %w", err)
		}

		result.Opponent = opponent
		result.State = state
	}

	that.logger.Info("player joined room", "roomID", roomID, "playerID", playerID, "symbol", player.Symbol)

	return result, nil
}

// MakeMove resolves the player's room and applies the move. The returned
// state may carry a transient winner together with the next round's board.
func (that *GameManager) MakeMove(playerID string, position int) (*MoveResult, error) {
	roomID, err := that.rooms.RoomIDByPlayerID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room: %w", err)
	}

	state, err := that.engine.MakeMove(roomID, playerID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	return &MoveResult{
		RoomID: roomID,
		State:  state,
	}, nil
}

func (that *GameManager) Players(roomID string) ([]*entity.Player, error) {
	players, err := that.rooms.Players(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	return players, nil
}

// HandleDisconnect removes the player, resets the round for whoever stays,
// and deletes the room once it is empty. A disconnect must never wedge the
// registry, so every failure here is logged and swallowed.
func (that *GameManager) HandleDisconnect(playerID string) *DisconnectResult {
	log := that.logger.With("method", "HandleDisconnect", "playerID", playerID)

	roomID, err := that.rooms.RoomIDByPlayerID(playerID)
	if err != nil {
		// not in any room, nothing to clean up
		return nil
	}

	opponent, err := that.rooms.Opponent(roomID, playerID)
	if err != nil {
		log.Error("failed to get opponent", "error", err)
	}

	if err = that.rooms.RemovePlayerFromRoom(roomID, playerID); err != nil {
		log.Error("failed to remove player from room", "error", err)
		return nil
	}

	empty, err := that.rooms.IsRoomEmpty(roomID)
	if err != nil {
		log.Error("failed to check room", "error", err)
		return nil
	}

	if empty {
		that.rooms.DeleteRoom(roomID)
		log.Info("room deleted", "roomID", roomID)

		return nil
	}

	state, err := that.engine.ResetGameByRoomID(roomID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		return nil
	}

	log.Info("player left room", "roomID", roomID)

	return &DisconnectResult{
		RoomID:   roomID,
		Opponent: opponent,
		State:    state,
	}
}
