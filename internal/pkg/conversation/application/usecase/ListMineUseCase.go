package usecase

import (
	"context"
	"sort"

	storage "findmystuff/internal/infrastructure/storage/port"
	conversation "findmystuff/internal/pkg/conversation/domain"
	"findmystuff/pkg/apperr"
)

// ListMineUseCase returns every conversation the user participates in,
// most recently created first.
type ListMineUseCase struct {
	Store storage.Store
}

func NewListMineUseCase(store storage.Store) *ListMineUseCase {
	return &ListMineUseCase{Store: store}
}

func (uc *ListMineUseCase) Execute(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	if userID == "" {
		return nil, apperr.InvalidArg("userId is required")
	}

	list, err := uc.Store.Conversations().Find(ctx, func(c conversation.Conversation) bool {
		return c.HasParticipant(userID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "list conversations", err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
