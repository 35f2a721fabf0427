package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	storage "findmystuff/internal/infrastructure/storage/port"
	posting "findmystuff/internal/pkg/posting/domain"
	"findmystuff/pkg/apperr"
)

// CreatePostingInput carries a new lost/found notice. OwnerID is nil when the
// poster did not present a credential; such postings stay anonymous and can
// never be messaged.
type CreatePostingInput struct {
	OwnerID     *string
	Type        posting.PostingType
	Item        string
	Description string
	Location    string
	ContactName string
	ContactInfo string
	Attachment  *string
}

// CreatePostingUseCase persists a new posting.
type CreatePostingUseCase struct {
	Store storage.Store
}

func NewCreatePostingUseCase(store storage.Store) *CreatePostingUseCase {
	return &CreatePostingUseCase{Store: store}
}

func (uc *CreatePostingUseCase) Execute(ctx context.Context, in CreatePostingInput) (*posting.Posting, error) {
	p, err := posting.NewPosting(
		uuid.NewString(), in.OwnerID, in.Type,
		in.Item, in.Description, in.Location,
		in.ContactName, in.ContactInfo, in.Attachment,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, "invalid posting", err)
	}

	if err := uc.Store.Postings().Insert(ctx, *p); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "create posting", err)
	}
	return p, nil
}
