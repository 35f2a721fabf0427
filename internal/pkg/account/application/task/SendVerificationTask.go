package task

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	qport "findmystuff/internal/infrastructure/queue/port"
)

// SendVerificationTaskType is the queue task name for delivering an account
// verification code.
const SendVerificationTaskType = "account:send_verification"

// SendVerificationPayload is the JSON payload transported via the queue.
type SendVerificationPayload struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Code  string `json:"code"`
}

// Sender delivers a verification code to a contact address.
type Sender interface {
	Send(ctx context.Context, email, phone, code string) error
}

// LogSender is the demo delivery path: it records the code in the log
// instead of contacting a provider. Deployments with a real email/SMS
// provider supply their own Sender.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) Send(ctx context.Context, email, phone, code string) error {
	s.Logger.Info("verification code issued",
		zap.String("email", email),
		zap.String("code", code))
	return nil
}

// RegisterSendVerificationTask binds the delivery handler to the worker
// server. Malformed payloads fail permanently; provider errors surface so
// the queue retries per task policy.
func RegisterSendVerificationTask(srv qport.Server, sender Sender) {
	srv.Register(SendVerificationTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendVerificationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return err
		}
		return sender.Send(ctx, p.Email, p.Phone, p.Code)
	})
}
