package usecase

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findmystuff/internal/infrastructure/storage/adapter"
	storage "findmystuff/internal/infrastructure/storage/port"
	conversation "findmystuff/internal/pkg/conversation/domain"
	posting "findmystuff/internal/pkg/posting/domain"
	"findmystuff/pkg/apperr"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := adapter.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return store
}

func seedPosting(t *testing.T, store storage.Store, owner *string) posting.Posting {
	t.Helper()
	p := posting.Posting{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Type:      posting.PostingTypeFound,
		Item:      "set of keys",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Postings().Insert(context.Background(), p))
	return p
}

func strptr(s string) *string { return &s }

func TestOpenConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - creates once, then returns the same record", func(t *testing.T) {
		store := newStore(t)
		p := seedPosting(t, store, strptr("owner"))
		uc := NewOpenConversationUseCase(store)

		first, err := uc.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"owner", "finder"}, first.Participants)
		assert.Equal(t, p.ID, first.PostingID)
		assert.Equal(t, "set of keys", first.Posting.Item)
		assert.Empty(t, first.Messages)

		second, err := uc.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		all, err := store.Conversations().All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("happy path - lookup is symmetric for the owner", func(t *testing.T) {
		store := newStore(t)
		p := seedPosting(t, store, strptr("owner"))
		uc := NewOpenConversationUseCase(store)

		opened, err := uc.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
		require.NoError(t, err)

		// Both sides list the same single conversation.
		list := NewListMineUseCase(store)
		forOwner, err := list.Execute(ctx, "owner")
		require.NoError(t, err)
		forFinder, err := list.Execute(ctx, "finder")
		require.NoError(t, err)
		require.Len(t, forOwner, 1)
		require.Len(t, forFinder, 1)
		assert.Equal(t, opened.ID, forOwner[0].ID)
		assert.Equal(t, opened.ID, forFinder[0].ID)
	})

	t.Run("sad path - unknown posting", func(t *testing.T) {
		store := newStore(t)
		uc := NewOpenConversationUseCase(store)

		_, err := uc.Execute(ctx, OpenConversationInput{PostingID: "missing", RequesterID: "finder"})
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})

	t.Run("sad path - posting without a registered owner", func(t *testing.T) {
		store := newStore(t)
		p := seedPosting(t, store, nil)
		uc := NewOpenConversationUseCase(store)

		_, err := uc.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
		assert.Equal(t, apperr.CodeFailedPrecondition, apperr.CodeOf(err))
	})

	t.Run("sad path - owner messaging themselves", func(t *testing.T) {
		store := newStore(t)
		p := seedPosting(t, store, strptr("owner"))
		uc := NewOpenConversationUseCase(store)

		_, err := uc.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "owner"})
		assert.Equal(t, apperr.CodeFailedPrecondition, apperr.CodeOf(err))
	})
}

func TestGetConversation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	p := seedPosting(t, store, strptr("owner"))

	open := NewOpenConversationUseCase(store)
	conv, err := open.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
	require.NoError(t, err)

	uc := NewGetConversationUseCase(store)

	t.Run("happy path - participant reads it", func(t *testing.T) {
		got, err := uc.Execute(ctx, GetConversationInput{ConversationID: conv.ID, RequesterID: strptr("finder")})
		require.NoError(t, err)
		assert.Equal(t, conv.ID, got.ID)
	})

	t.Run("sad path - outsider is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, GetConversationInput{ConversationID: conv.ID, RequesterID: strptr("stranger")})
		assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))
	})

	t.Run("sad path - anonymous caller is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, GetConversationInput{ConversationID: conv.ID, RequesterID: nil})
		assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))
	})

	t.Run("sad path - unknown id", func(t *testing.T) {
		_, err := uc.Execute(ctx, GetConversationInput{ConversationID: "missing", RequesterID: strptr("finder")})
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})

	t.Run("happy path - legacy record without participants is open to anyone", func(t *testing.T) {
		legacy := conversation.Conversation{
			ID:        uuid.NewString(),
			PostingID: "legacy-posting",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, store.Conversations().Insert(ctx, legacy))

		got, err := uc.Execute(ctx, GetConversationInput{ConversationID: legacy.ID, RequesterID: nil})
		require.NoError(t, err)
		assert.Equal(t, legacy.ID, got.ID)

		got, err = uc.Execute(ctx, GetConversationInput{ConversationID: legacy.ID, RequesterID: strptr("stranger")})
		require.NoError(t, err)
		assert.Equal(t, legacy.ID, got.ID)
	})
}

func TestAppendMessage(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	p := seedPosting(t, store, strptr("owner"))

	open := NewOpenConversationUseCase(store)
	conv, err := open.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
	require.NoError(t, err)

	uc := NewAppendMessageUseCase(store)

	t.Run("happy path - messages land in send order", func(t *testing.T) {
		for _, text := range []string{"hello", "is this yours?", "yes!"} {
			_, err := uc.Execute(ctx, AppendMessageInput{
				ConversationID: conv.ID,
				SenderID:       strptr("finder"),
				Name:           "Finder",
				Text:           text,
			})
			require.NoError(t, err)
		}

		got, err := store.Conversations().FindByID(ctx, conv.ID)
		require.NoError(t, err)
		require.Len(t, got.Messages, 3)
		assert.Equal(t, "hello", got.Messages[0].Text)
		assert.Equal(t, "is this yours?", got.Messages[1].Text)
		assert.Equal(t, "yes!", got.Messages[2].Text)
		for _, m := range got.Messages {
			assert.NotEmpty(t, m.ID)
			assert.False(t, m.Ts.IsZero())
		}
	})

	t.Run("happy path - legacy anonymous send stores a null sender", func(t *testing.T) {
		msg, err := uc.Execute(ctx, AppendMessageInput{
			ConversationID: conv.ID,
			SenderID:       nil,
			Name:           "",
			Text:           "left at the front desk",
		})
		require.NoError(t, err)
		assert.Nil(t, msg.FromUser)
		assert.Equal(t, "Anonymous", msg.Name)
	})

	t.Run("sad path - non-participant sender", func(t *testing.T) {
		_, err := uc.Execute(ctx, AppendMessageInput{
			ConversationID: conv.ID,
			SenderID:       strptr("stranger"),
			Name:           "Stranger",
			Text:           "let me in",
		})
		assert.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))
	})

	t.Run("sad path - empty text", func(t *testing.T) {
		_, err := uc.Execute(ctx, AppendMessageInput{
			ConversationID: conv.ID,
			SenderID:       strptr("finder"),
			Name:           "Finder",
			Text:           "   ",
		})
		assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	})

	t.Run("sad path - unknown conversation", func(t *testing.T) {
		_, err := uc.Execute(ctx, AppendMessageInput{
			ConversationID: "missing",
			SenderID:       strptr("finder"),
			Text:           "hello?",
		})
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	})
}

func TestAppendMessageConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	p := seedPosting(t, store, strptr("owner"))

	conv, err := NewOpenConversationUseCase(store).Execute(ctx, OpenConversationInput{
		PostingID:   p.ID,
		RequesterID: "finder",
	})
	require.NoError(t, err)

	// every request handler is its own goroutine; none of their appends may
	// overwrite another's
	uc := NewAppendMessageUseCase(store)
	const senders = 20
	var wg sync.WaitGroup
	errs := make(chan error, senders)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := uc.Execute(ctx, AppendMessageInput{
				ConversationID: conv.ID,
				SenderID:       strptr("finder"),
				Name:           "Finder",
				Text:           "message " + strconv.Itoa(n),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.Conversations().FindByID(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, senders)

	seen := make(map[string]struct{}, senders)
	for _, m := range got.Messages {
		seen[m.ID] = struct{}{}
	}
	assert.Len(t, seen, senders)
}

func TestOpenConversationConcurrent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	p := seedPosting(t, store, strptr("owner"))

	uc := NewOpenConversationUseCase(store)
	const openers = 10
	var wg sync.WaitGroup
	ids := make(chan string, openers)
	for i := 0; i < openers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := uc.Execute(ctx, OpenConversationInput{PostingID: p.ID, RequesterID: "finder"})
			if err == nil {
				ids <- conv.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{})
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1)

	all, err := store.Conversations().All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListMineOrdering(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	older := seedPosting(t, store, strptr("owner"))
	newer := seedPosting(t, store, strptr("owner"))

	open := NewOpenConversationUseCase(store)
	first, err := open.Execute(ctx, OpenConversationInput{PostingID: older.ID, RequesterID: "finder"})
	require.NoError(t, err)

	// Push the second conversation's CreatedAt clearly past the first.
	second, err := open.Execute(ctx, OpenConversationInput{PostingID: newer.ID, RequesterID: "finder"})
	require.NoError(t, err)
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	require.NoError(t, store.Conversations().Update(ctx, second.ID, *second))

	list, err := NewListMineUseCase(store).Execute(ctx, "finder")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
