// Package storage persists run metadata, per-generation fitness and the
// best chromosome of each run.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotInitialized is returned by stores used before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Run describes one simulation run.
type Run struct {
	ID        string
	Seed      int64
	StartedAt time.Time
	Birds     int
	Foods     int
	Cells     int
}

// GenerationRecord is the fitness summary of one completed generation.
type GenerationRecord struct {
	Generation int
	FoodEaten  int
	Min        float64
	Max        float64
	Mean       float64
	StdDev     float64
}

// Champion is the fittest bird a run has produced so far.
type Champion struct {
	Generation int       `json:"generation"`
	Fitness    float32   `json:"fitness"`
	Chromosome []float32 `json:"chromosome"`
}

// Store defines persistence operations for runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	AppendGeneration(ctx context.Context, runID string, rec GenerationRecord) error
	Generations(ctx context.Context, runID string) ([]GenerationRecord, error)
	SaveChampion(ctx context.Context, runID string, champ Champion) error
	GetChampion(ctx context.Context, runID string) (Champion, bool, error)
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}
