package cyclecount

import (
	"context"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
)

// InventorySource lee el contenido actual de las ubicaciones desde el sistema
// de inventario externo. Lectura pura: sin efectos sobre la fuente.
type InventorySource interface {
	FetchLocationContents(ctx context.Context) ([]entity.Item, error)
}

// SubmitResult resultado del envío de una orden a ItemPath. AlreadyExists y
// NoOrderLines son desenlaces blandos: la orden no se creó pero no es un error
// de la corrida.
type SubmitResult struct {
	OrderID       string
	AlreadyExists bool
	NoOrderLines  bool
}

// OrderSubmitter crea la orden de conteo en el sistema de inventario externo
// y resuelve por nombre el id de órdenes que ya existían de corridas
// anteriores (reconciliación del desenlace AlreadyExists).
type OrderSubmitter interface {
	CreateCountOrder(ctx context.Context, order *entity.CountOrder) (SubmitResult, error)
	GetOrderIDByName(ctx context.Context, name string) (string, error)
}

// TxRunner ejecuta fn dentro de una transacción del historial, con el
// repositorio de órdenes atado a esa transacción. La lectura de ubicaciones
// abiertas y la inserción del batch comparten transacción: es la sección
// crítica del invariante de deduplicación.
type TxRunner interface {
	Run(ctx context.Context, fn func(orders repository.CountOrderRepository) error) error
}

// CountSheetGenerator produce la hoja de conteo imprimible de una corrida.
type CountSheetGenerator interface {
	GenerateCountSheet(ctx context.Context, run *entity.Run, orders []entity.CountOrder) ([]byte, error)
}
