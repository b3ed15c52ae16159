package repository

import (
	"context"
	"time"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// CountOrderRepository define el puerto de persistencia de órdenes de conteo.
// La lectura de ubicaciones abiertas y la inserción del batch se ejecutan
// dentro de la misma transacción (ver TxRunner) para proteger el invariante
// de deduplicación.
type CountOrderRepository interface {
	// CreateBatch inserta todas las órdenes de una corrida. Todo o nada.
	CreateBatch(ctx context.Context, orders []entity.CountOrder) error
	// GetOpenLocationIDs devuelve las ubicaciones con una orden abierta
	// (pending/in_progress) creada después de openedAfter. Las órdenes más
	// antiguas se consideran vencidas y no bloquean la re-selección.
	GetOpenLocationIDs(ctx context.Context, openedAfter time.Time) (map[string]struct{}, error)
	// UpdateSubmission refleja el resultado del envío a ItemPath: estado y,
	// si se conoce, el id de la orden en ItemPath (itemPathID vacío no pisa
	// un id ya registrado).
	UpdateSubmission(ctx context.Context, orderID, status, itemPathID string) error
	// ListByRun devuelve las órdenes de una corrida, en orden de batch.
	ListByRun(ctx context.Context, runID string) ([]entity.CountOrder, error)
	// List filtra por estado y/o ubicación (vacío = sin filtro), paginado.
	List(ctx context.Context, status, locationID string, limit, offset int) ([]entity.CountOrder, error)
}
