package tictactoe

import (
	"fmt"
	"math/rand"

	"github.com/gameroomlabs/tictactoe-rooms/internal/apperror"
	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
)

type roomRegistry interface {
	GetRoomByID(roomID string) (*entity.Room, error)
}

// Engine enforces the turn-based rules and round lifecycle of a single
// room's game state. It has no knowledge of room membership beyond what it
// reads from the registry under the room lock.
type Engine struct {
	rooms   roomRegistry
	randInt func(n int) int
}

// NewEngine - builds an engine over the given registry. randInt decides the
// starting symbol after each reset; pass nil for math/rand.
func NewEngine(rooms roomRegistry, randInt func(n int) int) *Engine {
	if randInt == nil {
		randInt = rand.Intn
	}

	return &Engine{
		rooms:   rooms,
		randInt: randInt,
	}
}

// GameState - a snapshot of the room's current state.
func (that *Engine) GameState(roomID string) (*entity.GameState, error) {
	room, err := that.rooms.GetRoomByID(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	snapshot := *room.Game

	return &snapshot, nil
}

// MakeMove - the central state transition: validate, apply, detect win or
// draw, and reset the round when one is found. The whole sequence runs
// under the room lock so concurrent moves on the same room never interleave.
// On a win or draw the returned snapshot carries the winner together with
// the freshly reset board; the stored state is already reset and keeps no
// winner.
func (that *Engine) MakeMove(roomID, playerID string, position int) (*entity.GameState, error) {
	room, err := that.rooms.GetRoomByID(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsFull() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotReady, roomID)
	}

	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, playerID)
	}

	state := room.Game
	if err = validateMove(state, player.Symbol, position); err != nil {
		return nil, err
	}

	state.Board[position] = player.Symbol
	state.CurrentTurn = NextTurn(player.Symbol)

	if state.Board.HasWinningLine() {
		winner := &entity.Winner{Name: player.Name, Symbol: player.Symbol}
		return that.concludeRound(state, winner), nil
	}

	if state.Board.IsFull() {
		return that.concludeRound(state, entity.Draw), nil
	}

	snapshot := *state

	return &snapshot, nil
}

// ResetGame - replaces the board with a fresh one and flips a fair coin for
// the starting symbol. Callers must hold the room lock.
func (that *Engine) ResetGame(state *entity.GameState) {
	state.Board = entity.Board{}
	state.CurrentTurn = that.randomSymbol()
	state.Winner = nil
}

func (that *Engine) randomSymbol() string {
	if that.randInt(2) == 0 {
		return entity.PlayerX
	}

	return entity.PlayerO
}

// ResetGameByRoomID - resets the room's round, used when a room loses a
// player mid-game so the remaining player starts clean.
func (that *Engine) ResetGameByRoomID(roomID string) (*entity.GameState, error) {
	room, err := that.rooms.GetRoomByID(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	that.ResetGame(room.Game)
	snapshot := *room.Game

	return &snapshot, nil
}

// NextTurn - X to O, O to X.
func NextTurn(symbol string) string {
	if symbol == entity.PlayerX {
		return entity.PlayerO
	}

	return entity.PlayerX
}

// concludeRound resets the stored state and returns a one-off snapshot that
// announces the winner on top of the new round's empty board.
func (that *Engine) concludeRound(state *entity.GameState, winner *entity.Winner) *entity.GameState {
	that.ResetGame(state)

	snapshot := *state
	snapshot.Winner = winner

	return &snapshot
}

// validateMove - checks turn, then range, then occupancy. Turn comes first,
// so an out-of-turn move at an invalid position still reports "it's not
// your turn".
func validateMove(state *entity.GameState, symbol string, position int) error {
	if state.CurrentTurn != symbol {
		return apperror.ErrNotYourTurn
	}

	if position < 0 || position >= entity.BoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
	}

	if state.Board[position] != entity.EmptyCell {
		return fmt.Errorf("%w: %d", apperror.ErrFieldOccupied, position)
	}

	return nil
}
