package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gameroomlabs/tictactoe-rooms/internal/apperror"
	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
	"github.com/gameroomlabs/tictactoe-rooms/internal/pkg"
	"github.com/gameroomlabs/tictactoe-rooms/internal/usecase"
)

const (
	actionRoomJoin       = "room:join"
	actionGameTurn       = "game:turn"
	actionOpponentJoined = "opponent:joined"
	actionOpponentLeft   = "opponent:left"
	actionGameState      = "game:state"
)

type gameManager interface {
	JoinRoom(roomID, playerID, name string) (*usecase.JoinResult, error)
	MakeMove(playerID string, position int) (*usecase.MoveResult, error)
	Players(roomID string) ([]*entity.Player, error)
	HandleDisconnect(playerID string) *usecase.DisconnectResult
}

// client is one live connection. gorilla allows a single concurrent writer,
// and broadcasts come from other players' read loops, so every write goes
// through the client's own mutex.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *client) send(msg *Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Server is the session layer: it upgrades connections, assigns each one a
// connection id, dispatches inbound actions, and delivers outbound events.
type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client

	handlers map[string]func(playerID string, msg *Message) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		handlers: make(map[string]func(string, *Message) error),
	}

	server.handlers[actionRoomJoin] = server.handleRoomJoin
	server.handlers[actionGameTurn] = server.handleGameTurn

	return server
}

// Start - runs the WebSocket server until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.handleConnection)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleConnection(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	playerID := pkg.GenerateConnectionID()
	log = log.With("playerID", playerID)

	that.register(playerID, conn)
	defer that.disconnect(playerID)

	log.Info("connection established")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var msg Message
		if err = json.Unmarshal(raw, &msg); err != nil {
			_ = that.sendError(playerID, "", "invalid message")
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			_ = that.sendError(playerID, msg.Action, "unknown action")
			continue
		}

		if err = handler(playerID, &msg); err != nil {
			log.Error("failed to process message", "action", msg.Action, "error", err)
		}
	}
}

func (that *Server) register(playerID string, conn *websocket.Conn) {
	that.mu.Lock()
	that.clients[playerID] = &client{conn: conn}
	that.mu.Unlock()
}

func (that *Server) disconnect(playerID string) {
	log := that.logger.With("method", "disconnect", "playerID", playerID)

	that.mu.Lock()
	delete(that.clients, playerID)
	that.mu.Unlock()

	result := that.manager.HandleDisconnect(playerID)
	if result == nil {
		return
	}

	if result.Opponent == nil {
		return
	}

	if err := that.sendTo(result.Opponent.ID, actionOpponentLeft, Payload{}); err != nil {
		log.Error("failed to notify opponent", "error", err)
	}

	if result.State != nil {
		if err := that.sendTo(result.Opponent.ID, actionGameState, Payload{Game: result.State}); err != nil {
			log.Error("failed to send reset state", "error", err)
		}
	}
}

func (that *Server) sendTo(playerID, action string, payload Payload) error {
	that.mu.RLock()
	target, ok := that.clients[playerID]
	that.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return target.send(&Message{Action: action, Payload: raw})
}

func (that *Server) sendError(playerID, action, errorMsg string) error {
	return that.sendTo(playerID, action, Payload{Error: errorMsg})
}

// knownErrors are the expected, user-facing conditions; their text goes to
// the client verbatim. Anything else is reported as an internal error.
var knownErrors = []error{
	apperror.ErrRoomNotFound,
	apperror.ErrRoomFull,
	apperror.ErrPlayerAlreadyJoined,
	apperror.ErrPlayerNotFound,
	apperror.ErrPlayerNotInAnyRoom,
	apperror.ErrRoomNotReady,
	apperror.ErrNotYourTurn,
	apperror.ErrInvalidPosition,
	apperror.ErrFieldOccupied,
}

func userMessage(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}
