package usecase

import (
	"context"
	"errors"

	storage "findmystuff/internal/infrastructure/storage/port"
	conversation "findmystuff/internal/pkg/conversation/domain"
	"findmystuff/pkg/apperr"
)

// DeletePostingInput identifies the posting and the caller asking to remove it.
type DeletePostingInput struct {
	PostingID   string
	RequesterID string
}

// DeletePostingUseCase removes a posting (owner only) and cascades to every
// conversation referencing it, so no orphaned conversation survives.
type DeletePostingUseCase struct {
	Store storage.Store
}

func NewDeletePostingUseCase(store storage.Store) *DeletePostingUseCase {
	return &DeletePostingUseCase{Store: store}
}

func (uc *DeletePostingUseCase) Execute(ctx context.Context, in DeletePostingInput) error {
	if in.PostingID == "" || in.RequesterID == "" {
		return apperr.InvalidArg("postingId and requesterId are required")
	}

	p, err := uc.Store.Postings().FindByID(ctx, in.PostingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("posting not found")
		}
		return apperr.Wrap(apperr.CodeInternal, "load posting", err)
	}
	if !p.OwnedBy(in.RequesterID) {
		return apperr.Forbidden("forbidden")
	}

	if err := uc.Store.Postings().Delete(ctx, in.PostingID); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "delete posting", err)
	}

	// Cascade: the posting is already gone, so finish removing its
	// conversations even if single deletes fail along the way.
	convs, err := uc.Store.Conversations().Find(ctx, func(c conversation.Conversation) bool {
		return c.PostingID == in.PostingID
	})
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "find conversations for cascade", err)
	}
	for _, c := range convs {
		if err := uc.Store.Conversations().Delete(ctx, c.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return apperr.Wrap(apperr.CodeInternal, "cascade delete conversation", err)
		}
	}
	return nil
}
