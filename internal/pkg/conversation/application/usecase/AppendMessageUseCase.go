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

// AppendMessageInput carries a message to append. SenderID nil marks the
// legacy unauthenticated send path: the message is stored with a null sender.
// That path exists for old clients that predate login and is deliberately
// kept visible rather than removed.
type AppendMessageInput struct {
	ConversationID string
	SenderID       *string
	Name           string
	Text           string
}

// AppendMessageUseCase persists one message at the end of a conversation's
// log. It does not broadcast; realtime delivery is the caller's separate
// step, so a persisted message never depends on delivery succeeding.
type AppendMessageUseCase struct {
	Store storage.Store
}

func NewAppendMessageUseCase(store storage.Store) *AppendMessageUseCase {
	return &AppendMessageUseCase{Store: store}
}

func (uc *AppendMessageUseCase) Execute(ctx context.Context, in AppendMessageInput) (*conversation.Message, error) {
	if in.ConversationID == "" {
		return nil, apperr.InvalidArg("conversationId is required")
	}

	// The whole load-append-persist sequence runs under the conversation's
	// lock so concurrent appends cannot overwrite each other's messages.
	unlock := convLocks.lock(in.ConversationID)
	defer unlock()

	conv, err := uc.Store.Conversations().FindByID(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("conversation not found")
		}
		return nil, apperr.Wrap(apperr.CodeInternal, "load conversation", err)
	}

	if in.SenderID != nil && !conv.HasParticipant(*in.SenderID) {
		return nil, apperr.Forbidden("sender is not a participant in this conversation")
	}

	msg, err := conversation.NewMessage(conversation.Message{
		ID:       uuid.NewString(),
		FromUser: in.SenderID,
		Name:     in.Name,
		Text:     in.Text,
		Ts:       time.Now().UTC(),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, "invalid message", err)
	}

	conv.Append(*msg)
	if err := uc.Store.Conversations().Update(ctx, conv.ID, conv); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "persist message", err)
	}
	return msg, nil
}
