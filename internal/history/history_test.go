package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{BatchID: "batch-1", Mode: schemas.ModePlagiarism, FileCount: 2, SubmittedAt: base},
		{BatchID: "batch-2", Mode: schemas.ModeAI, FileCount: 1, SubmittedAt: base.Add(time.Hour)},
		{BatchID: "batch-3", Mode: schemas.ModeBoth, FileCount: 5, SubmittedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "batch-3", got[0].BatchID, "newest first")
	assert.Equal(t, schemas.ModeBoth, got[0].Mode)
	assert.Equal(t, 5, got[0].FileCount)
	assert.Equal(t, "batch-1", got[2].BatchID)
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Entry{
			BatchID:     string(rune('a' + i)),
			Mode:        schemas.ModePlagiarism,
			FileCount:   1,
			SubmittedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRecordDuplicateBatchID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry := Entry{BatchID: "dup", Mode: schemas.ModePlagiarism, FileCount: 1}
	require.NoError(t, store.Record(ctx, entry))
	assert.Error(t, store.Record(ctx, entry), "a batch id identifies exactly one submission")
}

func TestRecentOnEmptyStore(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordFillsSubmittedAt(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Entry{BatchID: "no-time", Mode: schemas.ModeAI, FileCount: 1}))

	got, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.WithinDuration(t, time.Now(), got[0].SubmittedAt, time.Minute)
}
