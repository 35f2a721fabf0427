package usecase

import (
	"context"
	"strings"

	storage "findmystuff/internal/infrastructure/storage/port"
	account "findmystuff/internal/pkg/account/domain"
	"findmystuff/pkg/apperr"
)

// VerifyContactInput carries the email/code pair from the verification form.
type VerifyContactInput struct {
	Email string
	Code  string
}

// VerifyContactUseCase marks an account verified when the submitted code
// matches the one issued at registration.
type VerifyContactUseCase struct {
	Store storage.Store
}

func NewVerifyContactUseCase(store storage.Store) *VerifyContactUseCase {
	return &VerifyContactUseCase{Store: store}
}

func (uc *VerifyContactUseCase) Execute(ctx context.Context, in VerifyContactInput) error {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Code == "" {
		return apperr.InvalidArg("email and code are required")
	}

	users, err := uc.Store.Users().Find(ctx, func(u account.User) bool {
		return u.Email == email
	})
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "load user", err)
	}
	if len(users) == 0 {
		return apperr.NotFound("not found")
	}

	u := users[0]
	if u.VerificationCode == "" || u.VerificationCode != in.Code {
		return apperr.InvalidArg("invalid code")
	}

	u.Verified = true
	u.VerificationCode = ""
	if err := uc.Store.Users().Update(ctx, u.ID, u); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "update user", err)
	}
	return nil
}
