package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client -> Server
	JoinGame      MessageType = "join"
	Ready         MessageType = "ready"
	RerollDice    MessageType = "reroll"
	ScoreCategory MessageType = "score"
	Chat          MessageType = "chat"
	Leave         MessageType = "leave"

	// Server -> Client
	Welcome        MessageType = "welcome"
	PlayerJoined   MessageType = "player_joined"
	PlayerLeft     MessageType = "player_left"
	GameStarted    MessageType = "game_started"
	TurnStarted    MessageType = "turn_started"
	DiceRolled     MessageType = "dice_rolled"
	ScoreRecorded  MessageType = "score_recorded"
	GameOver       MessageType = "game_over"
	ChatMessage    MessageType = "chat_message"
	ActionRejected MessageType = "rejected"
)

// Message represents the base message structure sent between client and server.
// The payload stays raw so the envelope can be decoded before the
// type-specific body.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps a typed payload into a wire envelope.
func NewMessage(t MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: raw}, nil
}

// Decode unmarshals the message payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", m.Type, err)
	}
	return nil
}

// JoinPayload announces a new player to the server.
type JoinPayload struct {
	Name string `json:"name"`
}

// RerollPayload requests a re-roll of all dice not marked held.
type RerollPayload struct {
	Hold [5]bool `json:"hold"`
}

// ScorePayload records the current roll into a category.
type ScorePayload struct {
	Category Category `json:"category"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

// PlayerInfo identifies one player in rosters and turn orders.
type PlayerInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Connected bool      `json:"connected"`
}

// WelcomePayload is the first message a client receives after joining.
type WelcomePayload struct {
	PlayerID uuid.UUID    `json:"player_id"`
	Roster   []PlayerInfo `json:"roster"`
}

type PlayerJoinedPayload struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type PlayerLeftPayload struct {
	ID uuid.UUID `json:"id"`
}

// GameStartedPayload carries the randomized turn order.
type GameStartedPayload struct {
	Order []PlayerInfo `json:"order"`
}

// TurnStartedPayload announces the active player together with the
// automatic first roll of their turn.
type TurnStartedPayload struct {
	PlayerID       uuid.UUID `json:"player_id"`
	Round          int       `json:"round"`
	Dice           [5]int    `json:"dice"`
	RollsRemaining int       `json:"rolls_remaining"`
}

// DiceRolledPayload reports the dice after a re-roll.
type DiceRolledPayload struct {
	Dice           [5]int  `json:"dice"`
	Held           [5]bool `json:"held"`
	RollsRemaining int     `json:"rolls_remaining"`
}

// ScoreRecordedPayload reports a filled category. Bonus is the Yahtzee
// bonus awarded by this scoring action, zero if none.
type ScoreRecordedPayload struct {
	PlayerID uuid.UUID `json:"player_id"`
	Category Category  `json:"category"`
	Points   int       `json:"points"`
	Bonus    int       `json:"bonus,omitempty"`
}

// Standing is one row of the final results, best first.
type Standing struct {
	PlayerID uuid.UUID `json:"player_id"`
	Name     string    `json:"name"`
	Total    int       `json:"total"`
}

type GameOverPayload struct {
	Standings []Standing `json:"standings"`
}

type ChatMessagePayload struct {
	From uuid.UUID `json:"from"`
	Name string    `json:"name"`
	Text string    `json:"text"`
}

// RejectedPayload explains why the server refused an action.
type RejectedPayload struct {
	Reason string `json:"reason"`
}
