package websocket

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameroomlabs/tictactoe-rooms/internal/apperror"
	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
	"github.com/gameroomlabs/tictactoe-rooms/internal/registry"
	"github.com/gameroomlabs/tictactoe-rooms/internal/tictactoe"
	"github.com/gameroomlabs/tictactoe-rooms/internal/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, *usecase.GameManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rooms := registry.New()
	engine := tictactoe.NewEngine(rooms, nil)
	manager := usecase.NewGameManager(logger, rooms, engine)

	server := New(logger, manager)

	ts := httptest.NewServer(http.HandlerFunc(server.handleConnection))
	t.Cleanup(ts.Close)

	return ts, manager
}

func dial(t *testing.T, ts *httptest.Server) *gorilla.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *gorilla.Conn) (*Message, *Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	payload := &Payload{}
	if len(msg.Payload) > 0 {
		require.NoError(t, json.Unmarshal(msg.Payload, payload))
	}

	return &msg, payload
}

func sendJoin(t *testing.T, conn *gorilla.Conn, roomID, name string) {
	t.Helper()

	raw := fmt.Sprintf(`{"action":%q,"payload":{"room_id":%q,"name":%q}}`, actionRoomJoin, roomID, name)
	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte(raw)))
}

func TestServer_RoomJoin(t *testing.T) {
	t.Run("Error event on unknown room", func(t *testing.T) {
		ts, _ := newTestServer(t)
		conn := dial(t, ts)

		// When: joining a room nobody created
		sendJoin(t, conn, "missing", "alice")

		// Then: the error comes back on the join action
		msg, payload := readMessage(t, conn)
		assert.Equal(t, actionRoomJoin, msg.Action)
		assert.Equal(t, "room not found", payload.Error)
	})

	t.Run("Error event on missing name", func(t *testing.T) {
		ts, manager := newTestServer(t)
		conn := dial(t, ts)

		roomID := manager.CreateRoom()
		sendJoin(t, conn, roomID, "")

		_, payload := readMessage(t, conn)
		assert.Equal(t, "name is required", payload.Error)
	})

	t.Run("Both joins acked, occupant notified, round opened", func(t *testing.T) {
		ts, manager := newTestServer(t)
		roomID := manager.CreateRoom()

		// Given: alice joined first
		alice := dial(t, ts)
		sendJoin(t, alice, roomID, "alice")

		msg, payload := readMessage(t, alice)
		require.Equal(t, actionRoomJoin, msg.Action)
		require.Empty(t, payload.Error)
		require.Equal(t, entity.PlayerO, payload.Symbol)
		require.Nil(t, payload.Opponent)

		// When: bob joins the same room
		bob := dial(t, ts)
		sendJoin(t, bob, roomID, "bob")

		// Then: bob's ack names alice as the opponent
		msg, payload = readMessage(t, bob)
		require.Equal(t, actionRoomJoin, msg.Action)
		require.Empty(t, payload.Error)
		assert.Equal(t, entity.PlayerX, payload.Symbol)
		require.NotNil(t, payload.Opponent)
		assert.Equal(t, entity.PublicPlayer{Name: "alice", Symbol: entity.PlayerO}, *payload.Opponent)

		// Then: alice hears that bob arrived, with no connection id attached
		msg, payload = readMessage(t, alice)
		assert.Equal(t, actionOpponentJoined, msg.Action)
		require.NotNil(t, payload.Opponent)
		assert.Equal(t, entity.PublicPlayer{Name: "bob", Symbol: entity.PlayerX}, *payload.Opponent)

		// Then: both sides receive the opening game state
		msg, payload = readMessage(t, alice)
		assert.Equal(t, actionGameState, msg.Action)
		require.NotNil(t, payload.Game)
		assert.Equal(t, entity.Board{}, payload.Game.Board)

		msg, payload = readMessage(t, bob)
		assert.Equal(t, actionGameState, msg.Action)
		require.NotNil(t, payload.Game)
	})
}

func TestServer_GameTurn(t *testing.T) {
	ts, manager := newTestServer(t)
	roomID := manager.CreateRoom()

	alice := dial(t, ts)
	sendJoin(t, alice, roomID, "alice")
	readMessage(t, alice) // join ack

	bob := dial(t, ts)
	sendJoin(t, bob, roomID, "bob")
	readMessage(t, bob)   // join ack
	readMessage(t, alice) // opponent joined
	readMessage(t, alice) // opening state
	readMessage(t, bob)   // opening state

	// When: alice (O, opening turn) takes position 4
	raw := fmt.Sprintf(`{"action":%q,"payload":{"position":4}}`, actionGameTurn)
	require.NoError(t, alice.WriteMessage(gorilla.TextMessage, []byte(raw)))

	// Then: both players receive the updated state
	for _, conn := range []*gorilla.Conn{alice, bob} {
		msg, payload := readMessage(t, conn)
		assert.Equal(t, actionGameState, msg.Action)
		require.NotNil(t, payload.Game)
		assert.Equal(t, entity.PlayerO, payload.Game.Board[4])
		assert.Equal(t, entity.PlayerX, payload.Game.CurrentTurn)
	}

	// When: bob answers on an occupied cell
	require.NoError(t, bob.WriteMessage(gorilla.TextMessage, []byte(raw)))

	// Then: only bob hears about it, as an error on the turn action
	msg, payload := readMessage(t, bob)
	assert.Equal(t, actionGameTurn, msg.Action)
	assert.Equal(t, "field is already occupied", payload.Error)
}

func TestUserMessage(t *testing.T) {
	// Then: known failures surface their own text, anything else is masked
	assert.Equal(t, "it's not your turn", userMessage(fmt.Errorf("failed to make move: %w", apperror.ErrNotYourTurn)))
	assert.Equal(t, "internal error", userMessage(fmt.Errorf("boom")))
}
