package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"findmystuff/internal/infrastructure/auth"
	"findmystuff/internal/infrastructure/realtime"
	"findmystuff/internal/infrastructure/storage/adapter"
	storage "findmystuff/internal/infrastructure/storage/port"
	conversation "findmystuff/internal/pkg/conversation/domain"
	conversationHTTP "findmystuff/internal/pkg/conversation/presentation/http"
	posting "findmystuff/internal/pkg/posting/domain"
)

type httpFixture struct {
	engine   *gin.Engine
	verifier *auth.Verifier
	store    storage.Store
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := adapter.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	verifier := auth.NewVerifier("test-secret", time.Hour)
	rt := realtime.NewRouter()
	t.Cleanup(rt.Close)

	engine := gin.New()
	conversationHTTP.RegisterRoutes(engine.Group("/api/v1"), store, rt, verifier, zap.NewNop())
	return &httpFixture{engine: engine, verifier: verifier, store: store}
}

func (f *httpFixture) request(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := f.verifier.Issue(userID, userID+"@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *httpFixture) seedPosting(t *testing.T, owner string) posting.Posting {
	t.Helper()
	p := posting.Posting{
		ID:        "posting-1",
		OwnerID:   &owner,
		Type:      posting.PostingTypeFound,
		Item:      "phone",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.store.Postings().Insert(context.Background(), p))
	return p
}

func TestOpenConversationEndpoint(t *testing.T) {
	f := newHTTPFixture(t)
	p := f.seedPosting(t, "owner-1")

	t.Run("sad path - no credential", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/v1/conversations", "", gin.H{"postingId": p.ID})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("sad path - missing postingId", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/v1/conversations", "finder-1", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sad path - unknown posting", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/v1/conversations", "finder-1", gin.H{"postingId": "missing"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sad path - owner opening against their own posting", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/v1/conversations", "owner-1", gin.H{"postingId": p.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("happy path - open twice yields one conversation", func(t *testing.T) {
		first := f.request(t, http.MethodPost, "/api/v1/conversations", "finder-1", gin.H{"postingId": p.ID})
		require.Equal(t, http.StatusOK, first.Code)

		var conv conversation.Conversation
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &conv))
		assert.ElementsMatch(t, []string{"owner-1", "finder-1"}, conv.Participants)

		second := f.request(t, http.MethodPost, "/api/v1/conversations", "finder-1", gin.H{"postingId": p.ID})
		require.Equal(t, http.StatusOK, second.Code)

		var again conversation.Conversation
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &again))
		assert.Equal(t, conv.ID, again.ID)
	})
}

func TestConversationReadEndpoints(t *testing.T) {
	f := newHTTPFixture(t)
	p := f.seedPosting(t, "owner-1")

	opened := f.request(t, http.MethodPost, "/api/v1/conversations", "finder-1", gin.H{"postingId": p.ID})
	require.Equal(t, http.StatusOK, opened.Code)
	var conv conversation.Conversation
	require.NoError(t, json.Unmarshal(opened.Body.Bytes(), &conv))

	t.Run("mine requires a credential", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, "/api/v1/conversations/mine", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("mine lists for both participants", func(t *testing.T) {
		for _, user := range []string{"owner-1", "finder-1"} {
			rec := f.request(t, http.MethodGet, "/api/v1/conversations/mine", user, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var list []conversation.Conversation
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
			require.Len(t, list, 1)
			assert.Equal(t, conv.ID, list[0].ID)
		}
	})

	t.Run("mine is empty for outsiders", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, "/api/v1/conversations/mine", "stranger", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("byId allows participants only", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, "/api/v1/conversations/byId/"+conv.ID, "owner-1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.request(t, http.MethodGet, "/api/v1/conversations/byId/"+conv.ID, "stranger", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = f.request(t, http.MethodGet, "/api/v1/conversations/byId/"+conv.ID, "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("byId unknown id", func(t *testing.T) {
		rec := f.request(t, http.MethodGet, "/api/v1/conversations/byId/missing", "owner-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
