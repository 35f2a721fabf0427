package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"findmystuff/internal/infrastructure/auth"
	"findmystuff/internal/infrastructure/realtime"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/conversation/application/usecase"
	"findmystuff/pkg/apperr"
)

// ConversationSocketController handles the websocket endpoint for realtime
// conversation traffic. Messages are persisted first, then fanned out to the
// room; a failed append is reported back to the sender as an error frame
// instead of being dropped silently.
type ConversationSocketController struct {
	router          *realtime.Router
	verifier        *auth.Verifier
	appendUC        *usecase.AppendMessageUseCase
	logger          *zap.Logger
	inflightTimeout time.Duration
}

func NewConversationSocketController(store storage.Store, router *realtime.Router, verifier *auth.Verifier, logger *zap.Logger) *ConversationSocketController {
	return &ConversationSocketController{
		router:          router,
		verifier:        verifier,
		appendUC:        usecase.NewAppendMessageUseCase(store),
		logger:          logger,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers of any origin may connect; authorization happens per
		// message via the bearer token, not per origin.
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Text           string `json:"text,omitempty"`
	Name           string `json:"name,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type outboundMessage struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversationId"`
	ID             string    `json:"id"`
	FromUser       *string   `json:"fromUser"`
	Name           string    `json:"name"`
	Text           string    `json:"text"`
	Ts             time.Time `json:"ts"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects. The handshake may carry a bearer token in the
// "token" query parameter; an absent or unverifiable token degrades the
// connection to anonymous rather than rejecting it.
func (ctl *ConversationSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity *auth.Identity
		if token := c.Query("token"); token != "" {
			if id, err := ctl.verifier.Verify(token); err == nil {
				identity = id
			}
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.logger.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		userID := ""
		if identity != nil {
			userID = identity.UserID
		}
		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		conn.Start()
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(conn, frame)
			case "leave":
				ctl.handleLeave(conn, frame)
			case "message":
				ctl.handleMessage(c, conn, identity, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

// handleJoin subscribes the connection to the conversation's room. There is
// no acknowledgement and no membership check at join time; reads of history
// and sends are authorized separately.
func (ctl *ConversationSocketController) handleJoin(conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	ctl.router.Join(frame.ConversationID, conn)
}

func (ctl *ConversationSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	ctl.router.Leave(frame.ConversationID, conn)
}

func (ctl *ConversationSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, identity *auth.Identity, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	// The sender identity may be absent: legacy clients without a login
	// still send, and their messages persist with a null sender.
	var senderID *string
	name := frame.Name
	if identity != nil {
		senderID = &identity.UserID
		if name == "" {
			name = identity.Email
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.appendUC.Execute(ctx, usecase.AppendMessageInput{
		ConversationID: frame.ConversationID,
		SenderID:       senderID,
		Name:           name,
		Text:           frame.Text,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	out := outboundMessage{
		Type:           "message",
		ConversationID: frame.ConversationID,
		ID:             msg.ID,
		FromUser:       msg.FromUser,
		Name:           msg.Name,
		Text:           msg.Text,
		Ts:             msg.Ts,
	}
	payload, err := json.Marshal(out)
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode message")
		return
	}

	// Everyone in the room gets the persisted message, the sender included:
	// clients render from the echo, there is no optimistic insert.
	ctl.router.Broadcast(frame.ConversationID, payload)
}

func (ctl *ConversationSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodePermissionDenied:
		ctl.replyError(conn, "forbidden", "sender is not a participant in this conversation")
	case apperr.CodeNotFound:
		ctl.replyError(conn, "not_found", "conversation not found")
	case apperr.CodeInternal:
		ctl.logger.Error("append message failed", zap.Error(err))
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ConversationSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
