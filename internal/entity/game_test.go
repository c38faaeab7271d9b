package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	// When: create a fresh game state
	state := NewGameState()

	// Then: the board is empty, the starting symbol has the turn, no winner
	require.NotNil(t, state)
	require.Equal(t, Board{}, state.Board)
	require.Equal(t, StartingTurn, state.CurrentTurn)
	require.Nil(t, state.Winner)
}

func TestBoard_HasWinningLine(t *testing.T) {
	t.Run("Winning row", func(t *testing.T) {
		board := Board{"X", "X", "X", "", "", "", "", "", ""}

		assert.True(t, board.HasWinningLine())
	})

	t.Run("Winning column", func(t *testing.T) {
		board := Board{"O", "", "", "O", "", "", "O", "", ""}

		assert.True(t, board.HasWinningLine())
	})

	t.Run("Winning diagonal", func(t *testing.T) {
		board := Board{"X", "", "", "", "X", "", "", "", "X"}

		assert.True(t, board.HasWinningLine())
	})

	t.Run("Full board without a line", func(t *testing.T) {
		board := Board{"X", "O", "X", "X", "O", "O", "O", "X", "X"}

		assert.False(t, board.HasWinningLine())
	})

	t.Run("Empty board", func(t *testing.T) {
		assert.False(t, Board{}.HasWinningLine())
	})
}

func TestBoard_IsFull(t *testing.T) {
	t.Run("All cells occupied", func(t *testing.T) {
		board := Board{"O", "X", "O", "X", "O", "X", "O", "X", "O"}

		assert.True(t, board.IsFull())
	})

	t.Run("One cell cleared", func(t *testing.T) {
		board := Board{"O", "X", "O", "X", "", "X", "O", "X", "O"}

		assert.False(t, board.IsFull())
	})
}

func TestWinner_MarshalJSON(t *testing.T) {
	t.Run("Player winner marshals as an object", func(t *testing.T) {
		winner := &Winner{Name: "alice", Symbol: PlayerX}

		raw, err := json.Marshal(winner)

		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"alice","symbol":"X"}`, string(raw))
	})

	t.Run("Draw marshals as the sentinel string", func(t *testing.T) {
		raw, err := json.Marshal(Draw)

		require.NoError(t, err)
		assert.Equal(t, `"draw"`, string(raw))
	})

	t.Run("Draw sentinel is distinct from a player named draw", func(t *testing.T) {
		winner := &Winner{Name: "draw", Symbol: PlayerO}

		assert.False(t, winner.IsDraw())
		assert.True(t, Draw.IsDraw())
	})
}
