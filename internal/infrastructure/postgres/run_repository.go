package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
)

var _ repository.RunRepository = (*RunRepo)(nil)

// RunRepo implementación de RunRepository sobre PostgreSQL.
type RunRepo struct {
	q Querier
}

// NewRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRunRepository(q Querier) *RunRepo {
	return &RunRepo{q: q}
}

// Record persiste los metadatos de una corrida terminada.
func (r *RunRepo) Record(ctx context.Context, run *entity.Run) error {
	query := `
		INSERT INTO runs (id, trigger_type, started_at, finished_at, outcome, stage, orders_created, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.Trigger, run.StartedAt, run.FinishedAt,
		run.Outcome, run.Stage, run.OrdersCreated, run.ErrorMessage,
	)
	if err != nil {
		return storeError("insert run", err)
	}
	return nil
}

// GetByID obtiene una corrida por id.
func (r *RunRepo) GetByID(ctx context.Context, id string) (*entity.Run, error) {
	query := `
		SELECT id, trigger_type, started_at, finished_at, outcome, stage, orders_created, error_message
		FROM runs WHERE id = $1`
	var run entity.Run
	err := r.q.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Trigger, &run.StartedAt, &run.FinishedAt,
		&run.Outcome, &run.Stage, &run.OrdersCreated, &run.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("get run", err)
	}
	return &run, nil
}

// ListRecent devuelve corridas por inicio descendente, paginado.
func (r *RunRepo) ListRecent(ctx context.Context, limit, offset int) ([]entity.Run, error) {
	query := `
		SELECT id, trigger_type, started_at, finished_at, outcome, stage, orders_created, error_message
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storeError("select runs", err)
	}
	defer rows.Close()

	var runs []entity.Run
	for rows.Next() {
		var run entity.Run
		err := rows.Scan(
			&run.ID, &run.Trigger, &run.StartedAt, &run.FinishedAt,
			&run.Outcome, &run.Stage, &run.OrdersCreated, &run.ErrorMessage,
		)
		if err != nil {
			return nil, storeError("scan run", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate runs", err)
	}
	return runs, nil
}
