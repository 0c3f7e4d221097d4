package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending && len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && !e.NextRetryAt.After(before) && len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			result = append(result, e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (r *fakeOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		if e.Status == shared.OutboxStatusPending || e.Status == shared.OutboxStatusFailed {
			e.Status = shared.OutboxStatusProcessing
			claimed = append(claimed, e)
		}
	}
	return claimed, nil
}

func (r *fakeOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

var _ shared.OutboxRepository = (*fakeOutboxRepo)(nil)

func newProcessorFixture(t *testing.T) (*OutboxProcessor, *fakeOutboxRepo, *capturePublisher, *EventSerializer) {
	t.Helper()
	repo := newFakeOutboxRepo()
	publisher := &capturePublisher{}
	serializer := NewEventSerializer()
	serializer.Register("test.event", &testEvent{})

	config := DefaultOutboxProcessorConfig()
	config.CleanupEnabled = false

	processor := NewOutboxProcessor(repo, publisher, serializer, config, zap.NewNop())
	return processor, repo, publisher, serializer
}

func saveEntry(t *testing.T, repo *fakeOutboxRepo, serializer *EventSerializer) *shared.OutboxEntry {
	t.Helper()
	shopID := uuid.New()
	event := newTestEvent("test.event", shopID)
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(shopID, event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestOutboxProcessor_PublishesPendingEntry(t *testing.T) {
	processor, repo, publisher, serializer := newProcessorFixture(t)
	ctx := context.Background()

	entry := saveEntry(t, repo, serializer)

	processor.ProcessBatch(ctx)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, entry.EventID, publisher.events[0].EventID())

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestOutboxProcessor_PublishFailureSchedulesRetry(t *testing.T) {
	processor, repo, publisher, serializer := newProcessorFixture(t)
	ctx := context.Background()

	entry := saveEntry(t, repo, serializer)
	publisher.err = errors.New("broker unavailable")

	processor.ProcessBatch(ctx)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.NotNil(t, stored.NextRetryAt)
	assert.Contains(t, stored.LastError, "broker unavailable")
}

func TestOutboxProcessor_DeadLetterAfterMaxRetries(t *testing.T) {
	processor, repo, publisher, serializer := newProcessorFixture(t)
	ctx := context.Background()

	entry := saveEntry(t, repo, serializer)
	publisher.err = errors.New("broker unavailable")

	// Drive the entry through every retry. Retryable entries become due
	// once their backoff passes, simulated by rewinding NextRetryAt.
	for i := 0; i < shared.DefaultMaxRetries; i++ {
		processor.ProcessBatch(ctx)
		stored, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		if stored.NextRetryAt != nil {
			past := time.Now().Add(-time.Minute)
			stored.NextRetryAt = &past
		}
	}

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusDead, stored.Status)
	assert.Equal(t, shared.DefaultMaxRetries, stored.RetryCount)
}

func TestOutboxProcessor_UnknownEventTypeFails(t *testing.T) {
	processor, repo, _, _ := newProcessorFixture(t)
	ctx := context.Background()

	shopID := uuid.New()
	event := newTestEvent("never.registered", shopID)
	entry := shared.NewOutboxEntry(shopID, event, []byte(`{}`))
	require.NoError(t, repo.Save(ctx, entry))

	processor.ProcessBatch(ctx)

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "unknown event type")
}
