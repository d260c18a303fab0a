package messages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

var chatActor = orders.Actor{Email: "buyer@x.test", Role: enums.PartyRoleBuyer}

func setupMessagesService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ChatMessage{}))

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedMessage(t *testing.T, db *gorm.DB, sender, content string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.ChatMessage{
		ID:          uuid.New(),
		SenderEmail: sender,
		Content:     content,
		Timestamp:   at,
	}).Error)
}

func TestListReturnsFullFeedNewestFirst(t *testing.T) {
	svc, db := setupMessagesService(t)
	ctx := context.Background()

	now := time.Now()
	seedMessage(t, db, "farmer@x.test", "first", now.Add(-2*time.Minute))
	seedMessage(t, db, "buyer@x.test", "second", now.Add(-time.Minute))
	seedMessage(t, db, "farmer@x.test", "third", now)

	list, err := svc.List(ctx, chatActor, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, list.Messages, 3)
	assert.Equal(t, "third", list.Messages[0].Content)
	assert.Equal(t, "first", list.Messages[2].Content)
	assert.Empty(t, list.NextCursor, "full feed has no cursor")
}

func TestListPaginatesWithCursor(t *testing.T) {
	svc, db := setupMessagesService(t)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 5; i++ {
		seedMessage(t, db, "buyer@x.test", "msg", now.Add(time.Duration(i)*time.Second))
	}

	page, err := svc.List(ctx, chatActor, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, chatActor, pagination.Params{Limit: 10, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Messages, 3)
	assert.Empty(t, rest.NextCursor)
	assert.True(t, rest.Messages[0].Timestamp.Before(page.Messages[1].Timestamp))
}

func TestPostAppendsWithServerTimestamp(t *testing.T) {
	svc, _ := setupMessagesService(t)

	dto, err := svc.Post(context.Background(), chatActor, PostMessageRequest{
		SenderEmail: "Buyer@X.test",
		Content:     "  is the maize still available?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@x.test", dto.SenderEmail)
	assert.Equal(t, "is the maize still available?", dto.Content)
	assert.False(t, dto.Timestamp.IsZero())
}

func TestPostedMessagesKeepCreationOrder(t *testing.T) {
	svc, db := setupMessagesService(t)

	first, err := svc.Post(context.Background(), chatActor, PostMessageRequest{
		SenderEmail: chatActor.Email,
		Content:     "first",
	})
	require.NoError(t, err)
	second, err := svc.Post(context.Background(), chatActor, PostMessageRequest{
		SenderEmail: chatActor.Email,
		Content:     "second",
	})
	require.NoError(t, err)

	var stored []models.ChatMessage
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 2)
	for _, msg := range stored {
		assert.False(t, msg.Timestamp.IsZero(), "stored timestamp is zero for %q", msg.Content)
	}
	assert.False(t, second.Timestamp.Before(first.Timestamp))

	page, err := svc.List(context.Background(), chatActor, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "second", page.Messages[0].Content)
	assert.Equal(t, "first", page.Messages[1].Content)
}

func TestPostRejectsMismatchedSender(t *testing.T) {
	svc, _ := setupMessagesService(t)

	_, err := svc.Post(context.Background(), chatActor, PostMessageRequest{
		SenderEmail: "someone-else@x.test",
		Content:     "hello",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}
