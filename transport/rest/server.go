package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type roomCreator interface {
	CreateRoom() string
}

type Server struct {
	logger *slog.Logger
	rooms  roomCreator
}

func New(logger *slog.Logger, rooms roomCreator) *Server {
	return &Server{
		logger: logger,
		rooms:  rooms,
	}
}

// Start - runs the HTTP server until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms/create", that.handleCreateRoom)
	mux.HandleFunc("/ping", that.handlePing)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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

func (that *Server) handleCreateRoom(writer http.ResponseWriter, _ *http.Request) {
	roomID := that.rooms.CreateRoom()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(writer).Encode(map[string]string{"room_id": roomID}); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) handlePing(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte("pong"))
}
