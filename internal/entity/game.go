package entity

import "encoding/json"

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9

	// StartingTurn is the turn a fresh room opens with. It matches the
	// symbol the first joiner receives, so the player who opened the room
	// moves first.
	StartingTurn = PlayerO
)

var WinningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid flattened row by row, positions 0-8.
type Board [BoardSize]string

// HasWinningLine reports whether any line is fully occupied by one symbol.
func (that Board) HasWinningLine() bool {
	for _, line := range WinningLines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != EmptyCell && a == b && b == c {
			return true
		}
	}

	return false
}

// IsFull reports whether every cell is occupied.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Winner is the public identity of a round's winner: display name plus
// symbol, never a connection id.
type Winner struct {
	Name   string `json:"name,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// Draw marks a round that ended with a full board and no winning line.
// It marshals as the plain string "draw".
var Draw = &Winner{Name: "draw"}

func (that *Winner) IsDraw() bool {
	return that != nil && that.Name == Draw.Name && that.Symbol == ""
}

func (that *Winner) MarshalJSON() ([]byte, error) {
	if that.IsDraw() {
		return json.Marshal(Draw.Name)
	}

	type winner Winner

	return json.Marshal((*winner)(that)) //nolint: wrapcheck // plain alias marshal
}

// GameState is the per-room round state. Winner is only ever set on the
// snapshot returned by the move that concluded the round; the stored state
// is reset in the same transition and never carries a winner.
type GameState struct {
	Board       Board   `json:"board"`
	CurrentTurn string  `json:"current_turn"`
	Winner      *Winner `json:"winner,omitempty"`
}

func NewGameState() *GameState {
	return &GameState{
		Board:       Board{},
		CurrentTurn: StartingTurn,
	}
}
