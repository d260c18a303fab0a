package proofs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

func setupProofsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProofOfPayment{}))
	return db
}

func TestUpsertReplacesExistingProof(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &models.ProofOfPayment{OrderID: 42, ProofURL: "https://x/one.png", UploadedAt: time.Now().Add(-time.Hour)}
	_, err := repo.Upsert(ctx, first)
	require.NoError(t, err)

	second := &models.ProofOfPayment{OrderID: 42, ProofURL: "https://x/two.png", UploadedAt: time.Now()}
	_, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ProofOfPayment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "at most one proof per order")

	stored, err := repo.FindByOrderID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://x/two.png", stored.ProofURL)
}

func TestFindByOrderIDMissing(t *testing.T) {
	repo := NewRepository(setupProofsTestDB(t))

	_, err := repo.FindByOrderID(context.Background(), 7)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByOrderIDsBatch(t *testing.T) {
	db := setupProofsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, id := range []int64{1, 3} {
		_, err := repo.Upsert(ctx, &models.ProofOfPayment{OrderID: id, ProofURL: "https://x/p.png", UploadedAt: time.Now()})
		require.NoError(t, err)
	}

	out, err := repo.FindByOrderIDs(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Contains(t, out, int64(1))
	assert.Contains(t, out, int64(3))
	assert.NotContains(t, out, int64(2))

	empty, err := repo.FindByOrderIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
