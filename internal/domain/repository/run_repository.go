package repository

import (
	"context"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// RunRepository define el puerto de auditoría de corridas.
type RunRepository interface {
	// Record persiste los metadatos de una corrida terminada.
	Record(ctx context.Context, run *entity.Run) error
	GetByID(ctx context.Context, id string) (*entity.Run, error)
	// ListRecent devuelve corridas ordenadas por inicio descendente.
	ListRecent(ctx context.Context, limit, offset int) ([]entity.Run, error)
}
