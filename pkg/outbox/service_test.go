package outbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.OutboxEvent{}))
	return gdb
}

func TestEmitQueuesEnvelopeInsideTransaction(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	err := gdb.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   "42",
			Actor:         &ActorRef{Email: "buyer@agrilink.test", Role: "buyer"},
			Data:          map[string]any{"orderId": 42},
			Version:       1,
		})
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, enums.EventOrderCreated, rows[0].EventType)
	require.Equal(t, "42", rows[0].AggregateID)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	require.Equal(t, 1, envelope.Version)
	require.NotEmpty(t, envelope.EventID)
	require.Equal(t, "buyer@agrilink.test", envelope.Actor.Email)
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t)), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}

func TestEmitRollsBackWithTransaction(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   "7",
			Data:          map[string]any{"orderId": 7},
			Version:       1,
		}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestMarkPublishedAndFailed(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc := NewService(repo, nil)

	require.NoError(t, gdb.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventOrderPaymentConfirmed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   "9",
			Data:          map[string]any{"orderId": 9},
			Version:       1,
		})
	}))

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.MarkFailed(rows[0].ID, gorm.ErrInvalidDB))
	rows, err = repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].AttemptCount)
	require.NotNil(t, rows[0].LastError)

	require.NoError(t, repo.MarkPublished(rows[0].ID))
	rows, err = repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}
