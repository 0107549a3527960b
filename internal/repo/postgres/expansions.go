package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lattice-ci/lattice-go/internal/repo"
)

type ExpansionStore struct {
	db DB
}

const (
	insertExpansionQuery = `INSERT INTO expansions (
		expansion_id,
		recipe_path,
		recipe_sha256,
		job_count,
		jobs,
		created_by
	) VALUES ($1,$2,$3,$4,$5,$6)
	RETURNING expansion_id, recipe_path, recipe_sha256, job_count, jobs, created_by, created_at`

	selectExpansionByIDQuery = `SELECT expansion_id, recipe_path, recipe_sha256, job_count, jobs, created_by, created_at
	 FROM expansions
	 WHERE expansion_id = $1`

	selectRecentExpansionsQuery = `SELECT expansion_id, recipe_path, recipe_sha256, job_count, jobs, created_by, created_at
	 FROM expansions
	 ORDER BY created_at DESC, expansion_id DESC
	 LIMIT $1`
)

func NewExpansionStore(db DB) *ExpansionStore {
	if db == nil {
		return nil
	}
	return &ExpansionStore{db: db}
}

func (s *ExpansionStore) CreateExpansion(ctx context.Context, id, recipePath, recipeSHA256 string, jobCount int, jobsJSON []byte, createdBy string) (repo.ExpansionRecord, error) {
	if s == nil || s.db == nil {
		return repo.ExpansionRecord{}, fmt.Errorf("expansion store not initialized")
	}
	id = strings.TrimSpace(id)
	recipeSHA256 = strings.TrimSpace(recipeSHA256)
	if id == "" {
		return repo.ExpansionRecord{}, fmt.Errorf("expansion id is required")
	}
	if recipeSHA256 == "" {
		return repo.ExpansionRecord{}, fmt.Errorf("recipe hash is required")
	}
	if jobCount < 0 {
		return repo.ExpansionRecord{}, fmt.Errorf("job count must be >= 0")
	}
	if len(jobsJSON) == 0 {
		return repo.ExpansionRecord{}, fmt.Errorf("jobs payload is required")
	}

	var record repo.ExpansionRecord
	err := s.db.QueryRowContext(
		ctx,
		insertExpansionQuery,
		id,
		recipePath,
		recipeSHA256,
		jobCount,
		jobsJSON,
		createdBy,
	).Scan(&record.ID, &record.RecipePath, &record.RecipeSHA256, &record.JobCount, &record.Jobs, &record.CreatedBy, &record.CreatedAt)
	if err != nil {
		return repo.ExpansionRecord{}, fmt.Errorf("insert expansion: %w", err)
	}
	return record, nil
}

func (s *ExpansionStore) GetExpansion(ctx context.Context, id string) (repo.ExpansionRecord, error) {
	if s == nil || s.db == nil {
		return repo.ExpansionRecord{}, fmt.Errorf("expansion store not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return repo.ExpansionRecord{}, fmt.Errorf("expansion id is required")
	}

	var record repo.ExpansionRecord
	row := s.db.QueryRowContext(ctx, selectExpansionByIDQuery, id)
	if err := row.Scan(&record.ID, &record.RecipePath, &record.RecipeSHA256, &record.JobCount, &record.Jobs, &record.CreatedBy, &record.CreatedAt); err != nil {
		return repo.ExpansionRecord{}, handleNotFound(err)
	}
	return record, nil
}

func (s *ExpansionStore) ListRecentExpansions(ctx context.Context, limit int) ([]repo.ExpansionRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("expansion store not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, selectRecentExpansionsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("list expansions: %w", err)
	}
	defer rows.Close()

	var records []repo.ExpansionRecord
	for rows.Next() {
		var record repo.ExpansionRecord
		if err := rows.Scan(&record.ID, &record.RecipePath, &record.RecipeSHA256, &record.JobCount, &record.Jobs, &record.CreatedBy, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expansion: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
