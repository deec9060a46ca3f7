package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, started_at, birds, foods, cells)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			started_at = excluded.started_at,
			birds = excluded.birds,
			foods = excluded.foods,
			cells = excluded.cells
	`, run.ID, run.Seed, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Birds, run.Foods, run.Cells)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	run := Run{ID: id}
	var started string
	err = db.QueryRowContext(ctx, `
		SELECT seed, started_at, birds, foods, cells FROM runs WHERE id = ?
	`, id).Scan(&run.Seed, &started, &run.Birds, &run.Foods, &run.Cells)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, false, fmt.Errorf("decode run %s start time: %w", id, err)
	}
	return run, true, nil
}

func (s *SQLiteStore) AppendGeneration(ctx context.Context, runID string, rec GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, food_eaten, fitness_min, fitness_max, fitness_mean, fitness_std)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			food_eaten = excluded.food_eaten,
			fitness_min = excluded.fitness_min,
			fitness_max = excluded.fitness_max,
			fitness_mean = excluded.fitness_mean,
			fitness_std = excluded.fitness_std
	`, runID, rec.Generation, rec.FoodEaten, rec.Min, rec.Max, rec.Mean, rec.StdDev)
	return err
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, food_eaten, fitness_min, fitness_max, fitness_mean, fitness_std
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		if err := rows.Scan(&rec.Generation, &rec.FoodEaten, &rec.Min, &rec.Max, &rec.Mean, &rec.StdDev); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveChampion(ctx context.Context, runID string, champ Champion) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(champ.Chromosome)
	if err != nil {
		return fmt.Errorf("encode chromosome: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO champions (run_id, generation, fitness, chromosome)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			generation = excluded.generation,
			fitness = excluded.fitness,
			chromosome = excluded.chromosome
	`, runID, champ.Generation, float64(champ.Fitness), payload)
	return err
}

func (s *SQLiteStore) GetChampion(ctx context.Context, runID string) (Champion, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Champion{}, false, err
	}

	var (
		champ   Champion
		fitness float64
		payload []byte
	)
	err = db.QueryRowContext(ctx, `
		SELECT generation, fitness, chromosome FROM champions WHERE run_id = ?
	`, runID).Scan(&champ.Generation, &fitness, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Champion{}, false, nil
		}
		return Champion{}, false, err
	}

	champ.Fitness = float32(fitness)
	if err := json.Unmarshal(payload, &champ.Chromosome); err != nil {
		return Champion{}, false, fmt.Errorf("decode champion %s: %w", runID, err)
	}
	return champ, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			birds INTEGER NOT NULL,
			foods INTEGER NOT NULL,
			cells INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			food_eaten INTEGER NOT NULL,
			fitness_min REAL NOT NULL,
			fitness_max REAL NOT NULL,
			fitness_mean REAL NOT NULL,
			fitness_std REAL NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
		CREATE TABLE IF NOT EXISTS champions (
			run_id TEXT PRIMARY KEY,
			generation INTEGER NOT NULL,
			fitness REAL NOT NULL,
			chromosome BLOB NOT NULL
		);
	`)
	return err
}
