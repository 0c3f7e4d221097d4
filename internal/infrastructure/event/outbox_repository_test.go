package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&OutboxEntryModel{})
	require.NoError(t, err)

	return db
}

func newOutboxEntry(t *testing.T) *shared.OutboxEntry {
	t.Helper()
	shopID := uuid.New()
	event := newTestEvent("test.event", shopID)
	return shared.NewOutboxEntry(shopID, event, []byte(`{"payload":"hello"}`))
}

func TestGormOutboxRepository_SaveAndFindPending(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newOutboxEntry(t)
	require.NoError(t, repo.Save(ctx, entry))

	pending, err := repo.FindPending(ctx, 10)

	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entry.ID, pending[0].ID)
	assert.Equal(t, entry.EventID, pending[0].EventID)
	assert.Equal(t, shared.OutboxStatusPending, pending[0].Status)
}

func TestGormOutboxRepository_Save_Empty(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)

	err := repo.Save(context.Background())

	require.NoError(t, err)
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newOutboxEntry(t)
	require.NoError(t, repo.Save(ctx, entry))

	entry.MarkFailed("broker unavailable")
	require.NoError(t, repo.Update(ctx, entry))

	// Not yet due
	due, err := repo.FindRetryable(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Len(t, due, 0)

	// Due once the backoff window has passed
	due, err = repo.FindRetryable(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, entry.ID, due[0].ID)
	assert.Equal(t, 1, due[0].RetryCount)
}

func TestGormOutboxRepository_Update_MarkSent(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newOutboxEntry(t)
	require.NoError(t, repo.Save(ctx, entry))

	entry.MarkSent()
	require.NoError(t, repo.Update(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, found.Status)
	assert.NotNil(t, found.ProcessedAt)
}

func TestGormOutboxRepository_FindByID_NotFound(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOutboxRepository_FindDead(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newOutboxEntry(t)
	require.NoError(t, repo.Save(ctx, entry))

	for i := 0; i < shared.DefaultMaxRetries; i++ {
		entry.MarkFailed("still broken")
	}
	require.True(t, entry.IsDead())
	require.NoError(t, repo.Update(ctx, entry))

	dead, total, err := repo.FindDead(ctx, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, dead, 1)
	assert.Equal(t, shared.OutboxStatusDead, dead[0].Status)
	assert.Equal(t, "still broken", dead[0].LastError)
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	old := newOutboxEntry(t)
	old.MarkSent()
	past := time.Now().Add(-30 * 24 * time.Hour)
	old.ProcessedAt = &past
	require.NoError(t, repo.Save(ctx, old))

	recent := newOutboxEntry(t)
	recent.MarkSent()
	require.NoError(t, repo.Save(ctx, recent))

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-7*24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByID(ctx, recent.ID)
	assert.NoError(t, err)
}

func TestGormOutboxRepository_CountByStatus(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	pending := newOutboxEntry(t)
	require.NoError(t, repo.Save(ctx, pending))

	sent := newOutboxEntry(t)
	sent.MarkSent()
	require.NoError(t, repo.Save(ctx, sent))

	counts, err := repo.CountByStatus(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusPending])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	// FOR UPDATE SKIP LOCKED is PostgreSQL-specific, covered by
	// integration tests against a real database.
	t.Skip("row locking clause is not supported by SQLite")
}

func TestGormOutboxRepository_WithTx(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)

	txRepo := repo.WithTx(db)

	assert.NotNil(t, txRepo)
	assert.NotSame(t, repo, txRepo)
}
