package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	storage "findmystuff/internal/infrastructure/storage/port"
	conversation "findmystuff/internal/pkg/conversation/domain"
	"findmystuff/pkg/apperr"
)

// OpenConversationInput carries the data to open (or find) the private
// conversation between the requester and a posting's owner.
type OpenConversationInput struct {
	PostingID   string
	RequesterID string
}

// OpenConversationUseCase resolves the single conversation per
// (posting, participant pair), creating it on first contact. Repeated calls
// are idempotent: they return the existing record and write nothing.
type OpenConversationUseCase struct {
	Store storage.Store
}

func NewOpenConversationUseCase(store storage.Store) *OpenConversationUseCase {
	return &OpenConversationUseCase{Store: store}
}

func (uc *OpenConversationUseCase) Execute(ctx context.Context, in OpenConversationInput) (*conversation.Conversation, error) {
	if in.PostingID == "" || in.RequesterID == "" {
		return nil, apperr.InvalidArg("postingId and requesterId are required")
	}

	p, err := uc.Store.Postings().FindByID(ctx, in.PostingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("posting not found")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "load posting", err)
	}

	if p.OwnerID == nil {
		return nil, apperr.FailedPrecondition("posting owner is not a registered user")
	}
	ownerID := *p.OwnerID
	if ownerID == in.RequesterID {
		return nil, apperr.FailedPrecondition("cannot open conversation with yourself")
	}

	// The find-then-insert below must not interleave with another open for
	// the same posting or both goroutines miss the lookup and each insert a
	// conversation.
	unlock := convLocks.lock(in.PostingID)
	defer unlock()

	// Order-independent lookup: one conversation per (posting, pair),
	// whichever side asked first.
	existing, err := uc.Store.Conversations().Find(ctx, func(c conversation.Conversation) bool {
		return c.PostingID == in.PostingID && c.MatchesPair(ownerID, in.RequesterID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "find conversation", err)
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	conv := conversation.Conversation{
		ID:        uuid.NewString(),
		PostingID: p.ID,
		Posting: conversation.PostingSnapshot{
			ID:          p.ID,
			Item:        p.Item,
			ContactName: p.ContactName,
			ContactInfo: p.ContactInfo,
		},
		Participants: []string{ownerID, in.RequesterID},
		Messages:     []conversation.Message{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.Store.Conversations().Insert(ctx, conv); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "create conversation", err)
	}
	return &conv, nil
}
