package ws

import (
	"encoding/json"

	"github.com/benbeisheim/sanchess-backend/internal/model"
)

// MessageType represents the different kinds of messages a game connection
// carries.
type MessageType string

const (
	// Client to server.
	MessageTypeMove      MessageType = "move"
	MessageTypeTakeBack  MessageType = "takeback"
	MessageTypePromotion MessageType = "promotion"

	// Server to client.
	MessageTypeGameState        MessageType = "gameState"
	MessageTypePromotionRequest MessageType = "promotionRequest"
	MessageTypeError            MessageType = "error"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type MovePayload struct {
	Notation string `json:"notation"`
}

type TakeBackPayload struct {
	Count int `json:"count"`
}

type PromotionRequestPayload struct {
	Color  model.PlayerColor `json:"color"`
	Square model.Square      `json:"square"`
}

type PromotionPayload struct {
	Piece string `json:"piece"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage wraps payload in an envelope of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}
