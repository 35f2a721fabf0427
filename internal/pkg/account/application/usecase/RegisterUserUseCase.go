package usecase

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	qport "findmystuff/internal/infrastructure/queue/port"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/account/application/task"
	account "findmystuff/internal/pkg/account/domain"
	"findmystuff/pkg/apperr"
)

// RegisterUserInput carries a registration request. Phone is optional and
// only used for verification delivery.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// RegisterUserOutput reports the result. VerificationCode is populated only
// in demo mode (no real delivery configured) so the flow stays testable.
type RegisterUserOutput struct {
	VerificationCode string
}

// RegisterUserUseCase creates an unverified account and queues delivery of
// its verification code.
type RegisterUserUseCase struct {
	Store storage.Store
	Queue qport.Client // nil when no queue is configured; delivery degrades to demo mode
	Demo  bool
}

func NewRegisterUserUseCase(store storage.Store, queue qport.Client, demo bool) *RegisterUserUseCase {
	return &RegisterUserUseCase{Store: store, Queue: queue, Demo: demo}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, in RegisterUserInput) (*RegisterUserOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.InvalidArg("email and password are required")
	}

	existing, err := uc.Store.Users().Find(ctx, func(u account.User) bool {
		return u.Email == email
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "check email", err)
	}
	if len(existing) > 0 {
		return nil, apperr.AlreadyExists("email exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "hash password", err)
	}

	code, err := verificationCode()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "generate code", err)
	}

	u, err := account.NewUser(uuid.NewString(), in.Name, email, string(hash), code, time.Now().UTC())
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidArgument, "invalid user", err)
	}
	if err := uc.Store.Users().Insert(ctx, *u); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "create user", err)
	}

	uc.enqueueDelivery(ctx, email, in.Phone, code)

	out := &RegisterUserOutput{}
	if uc.Demo || uc.Queue == nil {
		out.VerificationCode = code
	}
	return out, nil
}

// enqueueDelivery is best-effort: a queue outage must not fail registration,
// the demo-mode response still carries the code.
func (uc *RegisterUserUseCase) enqueueDelivery(ctx context.Context, email, phone, code string) {
	if uc.Queue == nil {
		return
	}
	payload, err := json.Marshal(task.SendVerificationPayload{Email: email, Phone: phone, Code: code})
	if err != nil {
		return
	}
	_, _ = uc.Queue.Enqueue(ctx, qport.Task{Type: task.SendVerificationTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "account", MaxRetry: 3})
}

func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
