package controller_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"findmystuff/internal/infrastructure/auth"
	"findmystuff/internal/infrastructure/realtime"
	"findmystuff/internal/infrastructure/storage/adapter"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/conversation/application/usecase"
	conversation "findmystuff/internal/pkg/conversation/domain"
	"findmystuff/internal/pkg/conversation/presentation/controller"
	posting "findmystuff/internal/pkg/posting/domain"
)

type wsFixture struct {
	server   *httptest.Server
	verifier *auth.Verifier
	store    storage.Store
	conv     *conversation.Conversation
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := adapter.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	owner := "owner-1"
	p := posting.Posting{
		ID:        "posting-1",
		OwnerID:   &owner,
		Type:      posting.PostingTypeLost,
		Item:      "umbrella",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Postings().Insert(context.Background(), p))

	conv, err := usecase.NewOpenConversationUseCase(store).Execute(context.Background(), usecase.OpenConversationInput{
		PostingID:   p.ID,
		RequesterID: "finder-1",
	})
	require.NoError(t, err)

	verifier := auth.NewVerifier("test-secret", time.Hour)
	rt := realtime.NewRouter()
	t.Cleanup(rt.Close)

	engine := gin.New()
	socketCtl := controller.NewConversationSocketController(store, rt, verifier, zap.NewNop())
	engine.GET("/api/v1/ws", socketCtl.Handle())

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return &wsFixture{server: server, verifier: verifier, store: store, conv: conv}
}

// dial connects a websocket client. userID empty means anonymous.
func (f *wsFixture) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/v1/ws"
	if userID != "" {
		token, err := f.verifier.Issue(userID, userID+"@example.com")
		require.NoError(t, err)
		url += "?token=" + token
	}
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, frame map[string]any) {
	t.Helper()
	payload, err := json.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, payload))
}

func read(t *testing.T, ws *websocket.Conn, timeout time.Duration) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(timeout)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestSocketBroadcast(t *testing.T) {
	f := newWSFixture(t)

	ownerWS := f.dial(t, "owner-1")
	finderWS := f.dial(t, "finder-1")
	idleWS := f.dial(t, "bystander")

	send(t, ownerWS, map[string]any{"type": "join", "conversationId": f.conv.ID})
	send(t, finderWS, map[string]any{"type": "join", "conversationId": f.conv.ID})
	// joins are processed asynchronously per connection; give them a beat
	time.Sleep(250 * time.Millisecond)

	send(t, finderWS, map[string]any{
		"type":           "message",
		"conversationId": f.conv.ID,
		"text":           "is this yours?",
	})

	forOwner := read(t, ownerWS, 2*time.Second)
	forFinder := read(t, finderWS, 2*time.Second)

	// both room members, the sender included, get the same persisted message
	assert.Equal(t, "message", forOwner["type"])
	assert.Equal(t, "is this yours?", forOwner["text"])
	assert.Equal(t, "finder-1", forOwner["fromUser"])
	assert.Equal(t, forOwner["id"], forFinder["id"])
	assert.NotEmpty(t, forOwner["id"])

	// a connection that joined nothing hears nothing
	require.NoError(t, idleWS.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := idleWS.ReadMessage()
	assert.Error(t, err)

	// the message was persisted before delivery
	conv, err := f.store.Conversations().FindByID(context.Background(), f.conv.ID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "is this yours?", conv.Messages[0].Text)
}

func TestSocketErrorFrames(t *testing.T) {
	f := newWSFixture(t)

	t.Run("unknown conversation gets an error frame back", func(t *testing.T) {
		ws := f.dial(t, "finder-1")
		send(t, ws, map[string]any{
			"type":           "message",
			"conversationId": "missing",
			"text":           "anyone there?",
		})

		frame := read(t, ws, 2*time.Second)
		assert.Equal(t, "error", frame["type"])
		assert.Equal(t, "not_found", frame["code"])
	})

	t.Run("non-participant send is refused", func(t *testing.T) {
		ws := f.dial(t, "stranger")
		send(t, ws, map[string]any{
			"type":           "message",
			"conversationId": f.conv.ID,
			"text":           "let me in",
		})

		frame := read(t, ws, 2*time.Second)
		assert.Equal(t, "error", frame["type"])
		assert.Equal(t, "forbidden", frame["code"])
	})

	t.Run("unparseable frame is rejected without dropping the socket", func(t *testing.T) {
		ws := f.dial(t, "finder-1")
		require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))

		frame := read(t, ws, 2*time.Second)
		assert.Equal(t, "error", frame["type"])
		assert.Equal(t, "bad_request", frame["code"])

		send(t, ws, map[string]any{"type": "bogus"})
		frame = read(t, ws, 2*time.Second)
		assert.Equal(t, "unsupported_type", frame["code"])
	})
}

func TestSocketAnonymousLegacySend(t *testing.T) {
	f := newWSFixture(t)

	// no token at all: the connection is anonymous, sends persist with a
	// null sender under the legacy path
	ws := f.dial(t, "")
	send(t, ws, map[string]any{"type": "join", "conversationId": f.conv.ID})
	time.Sleep(250 * time.Millisecond)

	send(t, ws, map[string]any{
		"type":           "message",
		"conversationId": f.conv.ID,
		"text":           "left it at the desk",
		"name":           "Passerby",
	})

	frame := read(t, ws, 2*time.Second)
	assert.Equal(t, "message", frame["type"])
	assert.Nil(t, frame["fromUser"])
	assert.Equal(t, "Passerby", frame["name"])

	conv, err := f.store.Conversations().FindByID(context.Background(), f.conv.ID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Nil(t, conv.Messages[0].FromUser)
}
