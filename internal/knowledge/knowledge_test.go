package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "video call", "video call", 1},
		{"both empty", "", "", 1},
		{"disjoint", "abc", "xyz", 0},
		{"shifted", "abcd", "bcde", 0.75},
		{"multibyte", "café", "cafe", 0.75},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestClosestMatch(t *testing.T) {
	t.Parallel()

	candidates := []string{"How do I send a photo?", "How do I make a video call?"}
	got, ok := ClosestMatch("how do i make a video call", candidates, DefaultSimilarity)
	require.True(t, ok)
	require.Equal(t, "How do I make a video call?", got)

	_, ok = ClosestMatch("How do I turn up the volume?", candidates, DefaultSimilarity)
	require.False(t, ok)
}

func storeDrivers(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := OpenSQLite(filepath.Join(dir, "kb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		DriverJSON:   NewJSONStore(filepath.Join(dir, "nested", "kb.json")),
		DriverSQLite: sqlite,
	}
}

func TestStoresKeepInsertionOrder(t *testing.T) {
	for name, store := range storeDrivers(t) {
		store := store
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			records, err := store.List(ctx)
			require.NoError(t, err)
			require.Empty(t, records)

			rec := NewRecorder(store, 0)
			require.NoError(t, rec.RecordQuestion(ctx, "How do I zoom?"))
			require.NoError(t, rec.RecordExchange(ctx, "How do I zoom?", "Step 1: Pinch outward."))
			require.NoError(t, rec.RecordQuestion(ctx, "How do I print?"))

			records, err = store.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 3)
			require.Equal(t, KindQuestion, records[0].Kind)
			require.Equal(t, KindQA, records[1].Kind)
			require.Equal(t, "Step 1: Pinch outward.", records[1].Answer)
			require.NotEmpty(t, records[1].ID)
			require.False(t, records[1].CreatedAt.IsZero())

			questions, err := store.Questions(ctx, KindQuestion)
			require.NoError(t, err)
			require.Equal(t, []string{"How do I zoom?", "How do I print?"}, questions)
		})
	}
}

func TestRecorderRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(NewJSONStore(filepath.Join(t.TempDir(), "kb.json")), DefaultSimilarity)

	require.NoError(t, rec.RecordQuestion(ctx, "How do I zoom?"))
	require.ErrorIs(t, rec.RecordQuestion(ctx, "  how do i ZOOM?  "), ErrDuplicate)

	require.NoError(t, rec.RecordExchange(ctx, "How do I make a video call?", "Step 1: Open the app."))
	require.ErrorIs(t, rec.RecordExchange(ctx, "how do I make a video call", "Step 1: Tap call."), ErrDuplicate)
	require.NoError(t, rec.RecordExchange(ctx, "How do I block a caller?", "Step 1: Open recents."))

	require.NoError(t, rec.RecordQuestion(ctx, "   "))
	require.NoError(t, rec.RecordExchange(ctx, "question", ""))
}

func TestJSONStoreTreatsBlankFileAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	records, err := NewJSONStore(path).List(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "x")
	require.Error(t, err)
}
