package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
)

var _ repository.CountOrderRepository = (*CountOrderRepo)(nil)

// CountOrderRepo implementación de CountOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type CountOrderRepo struct {
	q Querier
}

// NewCountOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountOrderRepository(q Querier) *CountOrderRepo {
	return &CountOrderRepo{q: q}
}

const countOrderColumns = `
	id, run_id, location_id, location_name, storage_unit,
	batch_name, itempath_id, status, priority, quantity, deadline, created_at`

// CreateBatch inserta todas las órdenes de la corrida. El llamador debe
// ejecutarlo dentro de una transacción (TxRunner) para que sea todo o nada.
func (r *CountOrderRepo) CreateBatch(ctx context.Context, orders []entity.CountOrder) error {
	query := `
		INSERT INTO count_orders (` + countOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, o := range orders {
		_, err := r.q.Exec(ctx, query,
			o.ID, o.RunID, o.LocationID, o.LocationName, o.StorageUnit,
			o.BatchName, o.ItemPathID, o.Status, o.Priority, o.Quantity, o.Deadline, o.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storeError("insert count order: batch duplicado", err)
			}
			return storeError("insert count order", err)
		}
	}
	return nil
}

// GetOpenLocationIDs devuelve las ubicaciones con orden abierta dentro de la
// ventana de deduplicación. Es la lectura del filtro de dedup: debe correr en
// la misma transacción que CreateBatch.
func (r *CountOrderRepo) GetOpenLocationIDs(ctx context.Context, openedAfter time.Time) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT location_id
		FROM count_orders
		WHERE status IN ($1, $2) AND created_at > $3`
	rows, err := r.q.Query(ctx, query,
		entity.OrderStatusPending, entity.OrderStatusInProgress, openedAfter)
	if err != nil {
		return nil, storeError("select open locations", err)
	}
	defer rows.Close()

	open := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeError("scan open location", err)
		}
		open[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate open locations", err)
	}
	return open, nil
}

// UpdateSubmission cambia el estado de una orden y registra el id de ItemPath
// cuando se conoce; un itemPathID vacío conserva el ya registrado.
func (r *CountOrderRepo) UpdateSubmission(ctx context.Context, orderID, status, itemPathID string) error {
	query := `
		UPDATE count_orders
		SET status = $2,
		    itempath_id = COALESCE(NULLIF($3, ''), itempath_id)
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, orderID, status, itemPathID)
	if err != nil {
		return storeError("update count order submission", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByRun devuelve las órdenes de una corrida en orden de batch.
func (r *CountOrderRepo) ListByRun(ctx context.Context, runID string) ([]entity.CountOrder, error) {
	query := `
		SELECT ` + countOrderColumns + `
		FROM count_orders
		WHERE run_id = $1
		ORDER BY batch_name`
	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, storeError("select orders by run", err)
	}
	defer rows.Close()
	return scanCountOrders(rows)
}

// List filtra por estado y/o ubicación (vacío = sin filtro), paginado, más
// recientes primero.
func (r *CountOrderRepo) List(ctx context.Context, status, locationID string, limit, offset int) ([]entity.CountOrder, error) {
	query := `
		SELECT ` + countOrderColumns + `
		FROM count_orders
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR location_id = $2)
		ORDER BY created_at DESC, batch_name
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, status, locationID, limit, offset)
	if err != nil {
		return nil, storeError("select orders", err)
	}
	defer rows.Close()
	return scanCountOrders(rows)
}

func scanCountOrders(rows pgx.Rows) ([]entity.CountOrder, error) {
	var orders []entity.CountOrder
	for rows.Next() {
		var o entity.CountOrder
		err := rows.Scan(
			&o.ID, &o.RunID, &o.LocationID, &o.LocationName, &o.StorageUnit,
			&o.BatchName, &o.ItemPathID, &o.Status, &o.Priority, &o.Quantity, &o.Deadline, &o.CreatedAt,
		)
		if err != nil {
			return nil, storeError("scan count order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate count orders", err)
	}
	return orders, nil
}
