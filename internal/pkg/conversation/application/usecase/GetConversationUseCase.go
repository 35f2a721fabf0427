package usecase

import (
	"context"
	"errors"

	storage "findmystuff/internal/infrastructure/storage/port"
	conversation "findmystuff/internal/pkg/conversation/domain"
	"findmystuff/pkg/apperr"
)

// GetConversationInput identifies the conversation and the (possibly absent)
// caller. RequesterID nil means no credential was presented.
type GetConversationInput struct {
	ConversationID string
	RequesterID    *string
}

// GetConversationUseCase fetches a conversation, enforcing that only
// participants may read it. Records with no participants at all (legacy demo
// data) stay readable by anyone.
type GetConversationUseCase struct {
	Store storage.Store
}

func NewGetConversationUseCase(store storage.Store) *GetConversationUseCase {
	return &GetConversationUseCase{Store: store}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (*conversation.Conversation, error) {
	if in.ConversationID == "" {
		return nil, apperr.InvalidArg("conversationId is required")
	}

	conv, err := uc.Store.Conversations().FindByID(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("conversation not found")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "load conversation", err)
	}

	requester := ""
	if in.RequesterID != nil {
		requester = *in.RequesterID
	}
	if !conv.OpenTo(requester) {
		return nil, apperr.Forbidden("forbidden")
	}
	return &conv, nil
}
