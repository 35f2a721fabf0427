package conversation

import (
	"errors"
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. FromUser is nil when
// the message arrived over the legacy unauthenticated path; such messages are
// still delivered but carry no verified sender identity.
type Message struct {
	ID       string    `json:"id" bson:"id"`
	FromUser *string   `json:"fromUser" bson:"fromUser,omitempty"`
	Name     string    `json:"name" bson:"name"`
	Text     string    `json:"text" bson:"text"`
	Ts       time.Time `json:"ts" bson:"ts"`
}

// NewMessage validates and normalizes a message before it is appended.
// Text is kept verbatim; escaping is the presentation layer's problem.
func NewMessage(m Message) (*Message, error) {
	if m.ID == "" {
		return nil, errors.New("conversation: message id is required")
	}
	if strings.TrimSpace(m.Text) == "" {
		return nil, errors.New("conversation: message text is required")
	}
	if m.Name == "" {
		m.Name = "Anonymous"
	}
	if m.Ts.IsZero() {
		m.Ts = time.Now().UTC()
	}
	return &m, nil
}
