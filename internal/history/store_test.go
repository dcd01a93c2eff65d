package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func validKey(t *testing.T) *core.Key {
	t.Helper()
	k, err := core.New(core.ProviderGroq, "gsk_"+strings.Repeat("a", 48))
	require.NoError(t, err)
	k.MarkValid("Groq API key is valid.")
	k.Quota.ModelCount = 7
	k.Quota.Summary = &core.AccountSummary{Plan: "Free Developer Tier"}
	return k
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := validKey(t)
	rep := core.BaseReport(core.ProviderGroq, key)
	rep.Summary = key.Quota.Summary

	require.NoError(t, store.Append(ctx, RecordOf(key, rep)))
	require.NoError(t, store.Append(ctx, RecordOf(key, rep)))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[0]
	assert.Equal(t, "Groq", rec.Provider)
	assert.Equal(t, core.Valid, rec.Validity)
	assert.Equal(t, 7, rec.ModelCount)
	assert.Equal(t, key.Fingerprint(), rec.Fingerprint)
	assert.Equal(t, key.Hint(), rec.Hint)
	assert.WithinDuration(t, time.Now(), rec.Timestamp, time.Minute)

	require.NotNil(t, rec.Summary)
	assert.Equal(t, "Free Developer Tier", rec.Summary.Plan)
}

// The raw secret must never reach the database.
func TestStoreNeverHoldsSecret(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := validKey(t)
	rep := core.BaseReport(core.ProviderGroq, key)
	require.NoError(t, store.Append(ctx, RecordOf(key, rep)))

	records, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0].Hint, strings.Repeat("a", 10))
	assert.NotEqual(t, key.Secret(), records[0].Fingerprint)
}

func TestForFingerprint(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := validKey(t)
	rep := core.BaseReport(core.ProviderGroq, key)
	require.NoError(t, store.Append(ctx, RecordOf(key, rep)))

	other, err := core.New(core.ProviderMistral, strings.Repeat("m", 32))
	require.NoError(t, err)
	other.MarkInvalid("Invalid Mistral API key.", "")
	require.NoError(t, store.Append(ctx, RecordOf(other, core.BaseReport(core.ProviderMistral, other))))

	records, err := store.ForFingerprint(ctx, key.Fingerprint())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Groq", records[0].Provider)

	records, err = store.ForFingerprint(ctx, "no-such-fingerprint")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := validKey(t)
	rep := core.BaseReport(core.ProviderGroq, key)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, RecordOf(key, rep)))
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	// Newest first.
	assert.Greater(t, records[0].ID, records[1].ID)
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := validKey(t)
	require.NoError(t, store.Append(ctx, RecordOf(key, core.BaseReport(core.ProviderGroq, key))))
	require.NoError(t, store.Clear(ctx))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
