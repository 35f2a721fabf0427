package usecase

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"findmystuff/internal/infrastructure/auth"
	storage "findmystuff/internal/infrastructure/storage/port"
	account "findmystuff/internal/pkg/account/domain"
	"findmystuff/pkg/apperr"
)

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the issued bearer token and the public user record.
type LoginOutput struct {
	Token string             `json:"token"`
	User  account.PublicUser `json:"user"`
}

// LoginUseCase checks credentials and issues a self-contained bearer token.
// Unknown email and wrong password produce the same failure so the endpoint
// does not leak which accounts exist.
type LoginUseCase struct {
	Store    storage.Store
	Verifier *auth.Verifier
}

func NewLoginUseCase(store storage.Store, verifier *auth.Verifier) *LoginUseCase {
	return &LoginUseCase{Store: store, Verifier: verifier}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.InvalidArg("email and password are required")
	}

	users, err := uc.Store.Users().Find(ctx, func(u account.User) bool {
		return u.Email == email
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "load user", err)
	}
	if len(users) == 0 {
		return nil, apperr.InvalidCredential("invalid email or password")
	}

	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperr.InvalidCredential("invalid email or password")
	}

	token, err := uc.Verifier.Issue(u.ID, u.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "issue token", err)
	}
	return &LoginOutput{Token: token, User: u.Public()}, nil
}
