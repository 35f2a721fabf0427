package conversation

import (
	"time"
)

// PostingSnapshot is the denormalized copy of the posting's contact fields
// taken when the conversation is created. It is never refreshed, so the
// thread keeps showing what the posting said at first contact even if the
// posting is later deleted.
type PostingSnapshot struct {
	ID          string `json:"id" bson:"id"`
	Item        string `json:"item" bson:"item"`
	ContactName string `json:"contactName" bson:"contactName"`
	ContactInfo string `json:"contactInfo" bson:"contactInfo"`
}

// Conversation is a private two-party thread scoped to one posting.
// Participants holds exactly the posting owner and the requester; at most one
// conversation exists per (postingId, unordered participant pair).
type Conversation struct {
	ID           string          `json:"id" bson:"_id"`
	PostingID    string          `json:"postingId" bson:"postingId"`
	Posting      PostingSnapshot `json:"posting" bson:"posting"`
	Participants []string        `json:"participants" bson:"participants"`
	Messages     []Message       `json:"messages" bson:"messages"`
	CreatedAt    time.Time       `json:"created" bson:"created"`
}

func (c Conversation) EntityID() string { return c.ID }

// HasParticipant tells whether userID is part of this conversation.
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OpenTo reports whether userID may read the conversation. Legacy records
// with no recorded participants are readable by anyone; that relaxation is
// kept for old demo data, it is not a security model.
func (c Conversation) OpenTo(userID string) bool {
	if len(c.Participants) == 0 {
		return true
	}
	return c.HasParticipant(userID)
}

// MatchesPair reports whether the conversation binds exactly the unordered
// participant pair {a, b}.
func (c Conversation) MatchesPair(a, b string) bool {
	return len(c.Participants) == 2 && c.HasParticipant(a) && c.HasParticipant(b)
}

// Append adds a validated message to the end of the log, preserving call
// order. The caller persists the whole conversation afterwards.
func (c *Conversation) Append(m Message) {
	c.Messages = append(c.Messages, m)
}
