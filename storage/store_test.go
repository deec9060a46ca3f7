package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite := NewSQLiteStore(filepath.Join(t.TempDir(), "aviary.db"))
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Init(ctx))

			run := Run{
				ID:        NewRunID(),
				Seed:      42,
				StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
				Birds:     40,
				Foods:     60,
				Cells:     9,
			}
			require.NoError(t, store.SaveRun(ctx, run))

			got, ok, err := store.GetRun(ctx, run.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, run.Seed, got.Seed)
			assert.True(t, run.StartedAt.Equal(got.StartedAt))
			assert.Equal(t, run.Cells, got.Cells)

			_, ok, err = store.GetRun(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreGenerations(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Init(ctx))

			runID := NewRunID()
			for g := 0; g < 3; g++ {
				rec := GenerationRecord{Generation: g, FoodEaten: 10 * g, Max: float64(g), Mean: float64(g) / 2}
				require.NoError(t, store.AppendGeneration(ctx, runID, rec))
			}

			recs, err := store.Generations(ctx, runID)
			require.NoError(t, err)
			require.Len(t, recs, 3)
			assert.Equal(t, 2, recs[2].Generation)
			assert.Equal(t, 20, recs[2].FoodEaten)
			assert.Equal(t, 1.0, recs[2].Mean)

			other, err := store.Generations(ctx, NewRunID())
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	}
}

func TestStoreChampion(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Init(ctx))

			runID := NewRunID()
			_, ok, err := store.GetChampion(ctx, runID)
			require.NoError(t, err)
			assert.False(t, ok)

			first := Champion{Generation: 1, Fitness: 7, Chromosome: []float32{0.5, -0.25, 1}}
			require.NoError(t, store.SaveChampion(ctx, runID, first))
			second := Champion{Generation: 2, Fitness: 11, Chromosome: []float32{0.125, 0.75}}
			require.NoError(t, store.SaveChampion(ctx, runID, second))

			got, ok, err := store.GetChampion(ctx, runID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, second, got)
		})
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.SaveRun(ctx, Run{ID: "x"})
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore("sqlite", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, CloseIfSupported(s))

	_, err = NewStore("postgres", "")
	assert.Error(t, err)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	assert.Error(t, NewSQLiteStore("").Init(context.Background()))
}

func TestNewRunIDUnique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}
