package realtime

import (
	"encoding/json"

	"talentx/internal/app/message"
)

// EnvelopeType tags every JSON object exchanged over the realtime connection.
type EnvelopeType string

const (
	// Client -> Server
	TypeAuth    EnvelopeType = "auth"
	TypeMessage EnvelopeType = "message"

	// Server -> Client
	TypeAuthenticated EnvelopeType = "authenticated"
	TypeError         EnvelopeType = "error"
	TypeNewMessage    EnvelopeType = "new_message"
)

// Error texts sent in error envelopes for protocol failures.
const (
	ErrTextAuthFailed       = "Authentication failed"
	ErrTextNotAuthenticated = "Not authenticated"
)

// inboundEnvelope is the union of the fields of every client envelope.
type inboundEnvelope struct {
	Type EnvelopeType `json:"type"`

	// auth
	Token string `json:"token,omitempty"`

	// message
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
	IsSupport  bool   `json:"isSupport,omitempty"`
}

func (e inboundEnvelope) createInput() message.CreateInput {
	return message.CreateInput{
		ReceiverID: e.ReceiverID,
		Content:    e.Content,
		IsSupport:  e.IsSupport,
	}
}

// AuthenticatedEnvelope acknowledges a successful auth envelope.
type AuthenticatedEnvelope struct {
	Type   EnvelopeType `json:"type"`
	Status string       `json:"status"`
}

// ErrorEnvelope reports a rejected envelope. The connection stays open.
type ErrorEnvelope struct {
	Type    EnvelopeType `json:"type"`
	Message string       `json:"message"`
}

// NewMessageEnvelope pushes a persisted message to a recipient.
type NewMessageEnvelope struct {
	Type    EnvelopeType             `json:"type"`
	Message message.FormattedMessage `json:"message"`
}

func encodeAuthenticated() []byte {
	b, _ := json.Marshal(AuthenticatedEnvelope{Type: TypeAuthenticated, Status: "ok"})
	return b
}

func encodeError(text string) []byte {
	b, _ := json.Marshal(ErrorEnvelope{Type: TypeError, Message: text})
	return b
}

func encodeNewMessage(msg message.FormattedMessage) ([]byte, error) {
	return json.Marshal(NewMessageEnvelope{Type: TypeNewMessage, Message: msg})
}
