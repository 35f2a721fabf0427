package posting

import (
	"errors"
	"strings"
	"time"
)

// PostingType distinguishes a lost-item notice from a found-item notice.
type PostingType string

const (
	PostingTypeLost  PostingType = "lost"
	PostingTypeFound PostingType = "found"
)

// Posting is a lost/found item notice. OwnerID is nil for anonymous notices
// posted without a credential; those cannot be messaged. Immutable except for
// deletion by the owner.
type Posting struct {
	ID          string      `json:"id" bson:"_id"`
	OwnerID     *string     `json:"ownerId" bson:"ownerId,omitempty"`
	Type        PostingType `json:"type" bson:"type"`
	Item        string      `json:"item" bson:"item"`
	Description string      `json:"desc" bson:"desc"`
	Location    string      `json:"location" bson:"location"`
	ContactName string      `json:"contactName" bson:"contactName"`
	ContactInfo string      `json:"contactInfo" bson:"contactInfo"`
	Attachment  *string     `json:"attachment" bson:"attachment,omitempty"`
	CreatedAt   time.Time   `json:"created" bson:"created"`
}

func (p Posting) EntityID() string { return p.ID }

// OwnedBy reports whether userID is the registered owner of the posting.
func (p Posting) OwnedBy(userID string) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}

func NewPosting(id string, ownerID *string, typ PostingType, item, desc, location, contactName, contactInfo string, attachment *string, now time.Time) (*Posting, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, errors.New("posting: item is required")
	}
	if typ != PostingTypeLost && typ != PostingTypeFound {
		return nil, errors.New(`posting: type must be "lost" or "found"`)
	}
	return &Posting{
		ID:          id,
		OwnerID:     ownerID,
		Type:        typ,
		Item:        item,
		Description: desc,
		Location:    location,
		ContactName: contactName,
		ContactInfo: contactInfo,
		Attachment:  attachment,
		CreatedAt:   now,
	}, nil
}
