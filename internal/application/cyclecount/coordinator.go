package cyclecount

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/dto"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	domaincc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/repository"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/pkg/logger"
)

// Etapas de una corrida, en orden. La etapa registrada en el Run es la última
// alcanzada (la fallida, si la corrida no terminó en success).
const (
	StageFetching   = "fetching"
	StageRanking    = "ranking"
	StageGenerating = "generating"
	StagePersisting = "persisting"
	StageSubmitting = "submitting"
	StageDone       = "done"
)

// Options parámetros operativos del coordinador.
type Options struct {
	// DefaultMaxOrders tope diario de órdenes cuando el trigger no manda uno.
	DefaultMaxOrders int
	// Cooldown ventana de deduplicación: una orden abierta más vieja que esto
	// deja de bloquear su ubicación.
	Cooldown time.Duration
	// Priority de las órdenes creadas en ItemPath (1=Low..4=Hot).
	Priority int
}

// RunParams parámetros de una invocación (manual o programada).
type RunParams struct {
	Trigger          string
	MaxOrders        int // 0 = usar DefaultMaxOrders
	StorageUnits     []string
	Qualifiers       []string
	Locations        []string
	AdditionalPrefix string
}

// Coordinator orquesta una corrida completa del motor:
// fetch → rank → generate → persist → submit. Solo una corrida puede estar en
// vuelo a la vez; un segundo intento falla de inmediato con ErrRunInProgress.
//
// submitter puede ser nil (modo desarrollo): las órdenes se generan y
// persisten pero no se envían a ItemPath, y quedan en pending.
type Coordinator struct {
	source    InventorySource
	tx        TxRunner
	orders    repository.CountOrderRepository
	runs      repository.RunRepository
	submitter OrderSubmitter
	opts      Options
	log       *logger.Logger

	mu sync.Mutex // lock de corrida única (TryLock en Run)

	lastMu sync.Mutex
	last   *dto.RunSummaryResponse
}

// NewCoordinator construye el coordinador.
func NewCoordinator(
	source InventorySource,
	tx TxRunner,
	orders repository.CountOrderRepository,
	runs repository.RunRepository,
	submitter OrderSubmitter,
	opts Options,
	log *logger.Logger,
) *Coordinator {
	if opts.DefaultMaxOrders <= 0 {
		opts.DefaultMaxOrders = 200
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 14 * 24 * time.Hour
	}
	if opts.Priority <= 0 {
		opts.Priority = 3
	}
	return &Coordinator{
		source:    source,
		tx:        tx,
		orders:    orders,
		runs:      runs,
		submitter: submitter,
		opts:      opts,
		log:       log,
	}
}

// Run ejecuta una corrida de punta a punta y devuelve su resumen.
// El lock se libera en todos los caminos de salida.
func (c *Coordinator) Run(ctx context.Context, params RunParams) (*dto.RunSummaryResponse, error) {
	if !c.mu.TryLock() {
		return nil, domain.ErrRunInProgress
	}
	defer c.mu.Unlock()

	now := time.Now()
	run := &entity.Run{
		ID:        uuid.NewString(),
		Trigger:   params.Trigger,
		StartedAt: now,
	}
	c.log.Info().Str("run_id", run.ID).Str("trigger", params.Trigger).
		Msg("iniciando corrida de cycle count")

	// Fetch
	run.Stage = StageFetching
	items, err := c.source.FetchLocationContents(ctx)
	if err != nil {
		return nil, c.fail(ctx, run, err)
	}

	// Rank
	run.Stage = StageRanking
	ranked, err := domaincc.Rank(items)
	if err != nil {
		return nil, c.fail(ctx, run, err)
	}

	maxOrders := params.MaxOrders
	if maxOrders <= 0 {
		maxOrders = c.opts.DefaultMaxOrders
	}

	// Generate + Persist: comparten transacción con la lectura de ubicaciones
	// abiertas para que nadie pueda colar una orden entre el filtro y el insert.
	var drafts []entity.CountOrder
	err = c.tx.Run(ctx, func(orderRepo repository.CountOrderRepository) error {
		run.Stage = StageGenerating
		open, err := orderRepo.GetOpenLocationIDs(ctx, now.Add(-c.opts.Cooldown))
		if err != nil {
			return err
		}
		drafts = Generate(ranked, open, GenerateOptions{
			MaxOrders:        maxOrders,
			StorageUnits:     params.StorageUnits,
			Qualifiers:       params.Qualifiers,
			Locations:        params.Locations,
			AdditionalPrefix: params.AdditionalPrefix,
			Priority:         c.opts.Priority,
			Now:              now,
		})
		for i := range drafts {
			drafts[i].RunID = run.ID
		}
		if len(drafts) == 0 {
			return nil
		}
		run.Stage = StagePersisting
		return orderRepo.CreateBatch(ctx, drafts)
	})
	if err != nil {
		return nil, c.fail(ctx, run, err)
	}
	run.OrdersCreated = len(drafts)

	// Submit: después del commit del batch. Un fallo individual no revierte
	// la corrida; la orden queda marcada como failed y el outcome es partial.
	summary := &dto.RunSummaryResponse{
		RunID:         run.ID,
		Trigger:       params.Trigger,
		OrdersCreated: len(drafts),
		StartedAt:     run.StartedAt,
	}
	if c.submitter != nil && len(drafts) > 0 {
		run.Stage = StageSubmitting
		c.submit(ctx, drafts, summary)
	}

	run.Stage = StageDone
	run.Outcome = entity.RunOutcomeSuccess
	if summary.OrdersFailed > 0 {
		run.Outcome = entity.RunOutcomePartial
	}
	run.FinishedAt = time.Now()
	if err := c.runs.Record(ctx, run); err != nil {
		c.log.Error().Err(err).Str("run_id", run.ID).Msg("registro de corrida")
	}

	summary.Outcome = run.Outcome
	summary.Stage = run.Stage
	summary.FinishedAt = run.FinishedAt
	c.setLast(summary)

	c.log.Info().Str("run_id", run.ID).Str("outcome", run.Outcome).
		Int("orders_created", summary.OrdersCreated).
		Int("orders_submitted", summary.OrdersSubmitted).
		Int("orders_skipped", summary.OrdersSkipped).
		Int("orders_failed", summary.OrdersFailed).
		Msg("corrida de cycle count terminada")
	return summary, nil
}

// submit envía cada orden a ItemPath y refleja el resultado en su estado.
func (c *Coordinator) submit(ctx context.Context, drafts []entity.CountOrder, summary *dto.RunSummaryResponse) {
	for i := range drafts {
		order := &drafts[i]
		res, err := c.submitter.CreateCountOrder(ctx, order)
		switch {
		case err != nil:
			summary.OrdersFailed++
			c.updateSubmission(ctx, order.ID, entity.OrderStatusFailed, "")
			c.log.Error().Err(err).Str("batch", order.BatchName).Msg("envío de orden a ItemPath")
		case res.AlreadyExists:
			summary.OrdersSkipped++
			c.updateSubmission(ctx, order.ID, entity.OrderStatusSkipped, c.reconcile(ctx, order.BatchName))
			c.log.Warn().Str("batch", order.BatchName).Msg("la orden ya existe en ItemPath")
		case res.NoOrderLines:
			summary.OrdersSkipped++
			c.updateSubmission(ctx, order.ID, entity.OrderStatusSkipped, "")
			c.log.Warn().Str("batch", order.BatchName).Msg("orden sin líneas en ItemPath")
		default:
			summary.OrdersSubmitted++
			c.updateSubmission(ctx, order.ID, entity.OrderStatusPending, res.OrderID)
		}
	}
}

// reconcile resuelve el id en ItemPath de una orden que ya existía de una
// corrida anterior. Best effort: la fila queda sin id si la búsqueda falla.
func (c *Coordinator) reconcile(ctx context.Context, batchName string) string {
	id, err := c.submitter.GetOrderIDByName(ctx, batchName)
	if err != nil {
		c.log.Warn().Err(err).Str("batch", batchName).Msg("reconciliación de orden existente")
		return ""
	}
	return id
}

func (c *Coordinator) updateSubmission(ctx context.Context, orderID, status, itemPathID string) {
	if err := c.orders.UpdateSubmission(ctx, orderID, status, itemPathID); err != nil {
		c.log.Error().Err(err).Str("order_id", orderID).Str("status", status).
			Msg("actualización de estado de orden")
	}
}

// fail registra la corrida como fallida (best effort) y devuelve el error de
// la etapa envuelto con su nombre.
func (c *Coordinator) fail(ctx context.Context, run *entity.Run, cause error) error {
	run.Outcome = entity.RunOutcomeFailure
	run.FinishedAt = time.Now()
	run.ErrorMessage = cause.Error()
	if err := c.runs.Record(ctx, run); err != nil {
		c.log.Error().Err(err).Str("run_id", run.ID).Msg("registro de corrida fallida")
	}

	summary := &dto.RunSummaryResponse{
		RunID:      run.ID,
		Trigger:    run.Trigger,
		Outcome:    run.Outcome,
		Stage:      run.Stage,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      cause.Error(),
	}
	c.setLast(summary)

	c.log.Error().Err(cause).Str("run_id", run.ID).Str("stage", run.Stage).
		Msg("corrida de cycle count fallida")
	return fmt.Errorf("etapa %s: %w", run.Stage, cause)
}

func (c *Coordinator) setLast(summary *dto.RunSummaryResponse) {
	c.lastMu.Lock()
	c.last = summary
	c.lastMu.Unlock()
}

// LastRun devuelve el resumen de la última corrida (nil si no hubo ninguna
// desde el arranque del proceso).
func (c *Coordinator) LastRun() *dto.RunSummaryResponse {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.last
}
