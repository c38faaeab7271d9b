package entity

// Player is one occupant of a room. ID is the transport-assigned
// connection identifier and must never be broadcast to peers.
type Player struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// PublicPlayer is a roster entry with the connection id stripped, safe to
// send to the other side of the board.
type PublicPlayer struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

func (that *Player) Public() PublicPlayer {
	return PublicPlayer{
		Name:   that.Name,
		Symbol: that.Symbol,
	}
}
