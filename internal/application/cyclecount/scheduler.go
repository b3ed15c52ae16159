package cyclecount

import (
	"context"
	"errors"
	"time"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/pkg/logger"
)

// Scheduler dispara una corrida diaria a la hora configurada (02:00 por
// defecto). Usa el mismo punto de entrada y el mismo lock que el trigger
// manual, así que no pueden pisarse: si una corrida manual está en vuelo a la
// hora programada, el disparo se registra como saltado y se espera al día
// siguiente.
type Scheduler struct {
	coord      *Coordinator
	hour       int
	minute     int
	runTimeout time.Duration
	log        *logger.Logger

	stop chan struct{}
	done chan struct{}
}

// NewScheduler construye el scheduler diario.
func NewScheduler(coord *Coordinator, hour, minute int, runTimeout time.Duration, log *logger.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 30 * time.Minute
	}
	return &Scheduler{
		coord:      coord,
		hour:       hour,
		minute:     minute,
		runTimeout: runTimeout,
		log:        log,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start lanza el loop en una goroutine. Llamar una sola vez.
func (s *Scheduler) Start() {
	s.log.Info().Int("hour", s.hour).Int("minute", s.minute).
		Msg("scheduler diario de cycle count iniciado")
	go s.loop()
}

// Stop detiene el loop y espera a que termine. No cancela una corrida en
// vuelo: la corrida es corta y atómica en el persist.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		next := nextRunAfter(time.Now(), s.hour, s.minute)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		summary, err := s.coord.Run(ctx, RunParams{Trigger: entity.RunTriggerScheduled})
		cancel()
		switch {
		case errors.Is(err, domain.ErrRunInProgress):
			// Guarda de concurrencia, no un fallo de negocio.
			s.log.Warn().Msg("disparo programado saltado: corrida en curso")
		case err != nil:
			s.log.Error().Err(err).Msg("corrida programada fallida")
		default:
			s.log.Info().Str("run_id", summary.RunID).
				Int("orders_created", summary.OrdersCreated).
				Msg("corrida programada terminada")
		}
	}
}

// nextRunAfter devuelve la próxima ocurrencia de hour:minute estrictamente
// posterior a now, en la zona horaria local.
func nextRunAfter(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
