package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
)

func (that *Server) handleRoomJoin(playerID string, msg *Message) error {
	log := that.logger.With("method", "handleRoomJoin", "playerID", playerID)

	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendError(playerID, msg.Action, "invalid payload")
	}

	if payload.RoomID == "" {
		return that.sendError(playerID, msg.Action, "room id is required")
	}

	if payload.Name == "" {
		return that.sendError(playerID, msg.Action, "name is required")
	}

	result, err := that.manager.JoinRoom(payload.RoomID, playerID, payload.Name)
	if err != nil {
		log.Error("failed to join room", "roomID", payload.RoomID, "error", err)
		return that.sendError(playerID, msg.Action, userMessage(err))
	}

	ack := Payload{Symbol: result.Player.Symbol}
	if result.Opponent != nil {
		opponent := result.Opponent.Public()
		ack.Opponent = &opponent
	}

	if err = that.sendTo(playerID, msg.Action, ack); err != nil {
		return fmt.Errorf("failed to send join ack: %w", err)
	}

	if result.Opponent == nil {
		return nil
	}

	// tell the occupant who just arrived, then open the round for both
	joined := result.Player.Public()
	if err = that.sendTo(result.Opponent.ID, actionOpponentJoined, Payload{Opponent: &joined}); err != nil {
		log.Error("failed to notify opponent", "error", err)
	}

	that.broadcastState(result.RoomID, result.State)

	return nil
}

func (that *Server) handleGameTurn(playerID string, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "playerID", playerID)

	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return that.sendError(playerID, msg.Action, "invalid payload")
	}

	if payload.Position == nil {
		return that.sendError(playerID, msg.Action, "position is required")
	}

	result, err := that.manager.MakeMove(playerID, *payload.Position)
	if err != nil {
		log.Error("failed to make move", "error", err)
		return that.sendError(playerID, msg.Action, userMessage(err))
	}

	that.broadcastState(result.RoomID, result.State)

	return nil
}

func (that *Server) broadcastState(roomID string, state *entity.GameState) {
	log := that.logger.With("method", "broadcastState", "roomID", roomID)

	players, err := that.manager.Players(roomID)
	if err != nil {
		log.Error("failed to get players", "error", err)
		return
	}

	for _, player := range players {
		if err = that.sendTo(player.ID, actionGameState, Payload{Game: state}); err != nil {
			log.Error("failed to send game state", "playerID", player.ID, "error", err)
		}
	}
}
