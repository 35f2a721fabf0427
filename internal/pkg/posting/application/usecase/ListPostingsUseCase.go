package usecase

import (
	"context"
	"sort"

	storage "findmystuff/internal/infrastructure/storage/port"
	posting "findmystuff/internal/pkg/posting/domain"
	"findmystuff/pkg/apperr"
)

// ListPostingsUseCase returns all postings, newest first.
type ListPostingsUseCase struct {
	Store storage.Store
}

func NewListPostingsUseCase(store storage.Store) *ListPostingsUseCase {
	return &ListPostingsUseCase{Store: store}
}

func (uc *ListPostingsUseCase) Execute(ctx context.Context) ([]posting.Posting, error) {
	list, err := uc.Store.Postings().All(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "list postings", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// ListMinePostingsUseCase returns the postings owned by one user.
type ListMinePostingsUseCase struct {
	Store storage.Store
}

func NewListMinePostingsUseCase(store storage.Store) *ListMinePostingsUseCase {
	return &ListMinePostingsUseCase{Store: store}
}

func (uc *ListMinePostingsUseCase) Execute(ctx context.Context, userID string) ([]posting.Posting, error) {
	if userID == "" {
		return nil, apperr.InvalidArg("userId is required")
	}
	list, err := uc.Store.Postings().Find(ctx, func(p posting.Posting) bool {
		return p.OwnedBy(userID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "list postings", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
