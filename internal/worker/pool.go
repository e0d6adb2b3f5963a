package worker

import (
	"context"
	"encoding/json"
	"time"

	"fondapos/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTicket       = "jobs:ticket"
	QueueNotificacion = "jobs:notificacion"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A non-nil error triggers a retry; after
// maxAttempts the job lands in the DLQ.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists. The worker pool dequeues
// them via BRPOP. A nil Dispatcher (Redis not configured) degrades to no-op:
// sales complete normally, tickets just are not emailed.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// VentaCompletada satisfies the sale orchestrator's notification hook: sales
// with a customer email get a ticket job; the rest are ignored.
func (d *Dispatcher) VentaCompletada(venta *model.Venta) {
	if d == nil || venta.ClienteEmail == nil || *venta.ClienteEmail == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.enqueue(ctx, QueueTicket, "ticket", TicketJobPayload{
		VentaID: venta.ID.String(),
		ToEmail: *venta.ClienteEmail,
	}); err != nil {
		// La venta ya está confirmada; el ticket por email se pierde y queda
		// el registro en el log.
		log.Error().Err(err).Str("venta_id", venta.ID.String()).Msg("dispatcher: no se pudo encolar el ticket")
	}
}

// DevolucionProcesada satisfies the return orchestrator's notification hook:
// every processed return emits an aviso job for the admin channel.
func (d *Dispatcher) DevolucionProcesada(dev *model.Devolucion) {
	if d == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.enqueue(ctx, QueueNotificacion, "devolucion_procesada", DevolucionJobPayload{
		DevolucionID: dev.ID.String(),
	}); err != nil {
		// La devolución ya está confirmada; solo se pierde el aviso.
		log.Error().Err(err).Str("devolucion_id", dev.ID.String()).Msg("dispatcher: no se pudo encolar el aviso de devolución")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler)}
}

// Register binds a handler to a job type.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	queues := []string{QueueTicket, QueueNotificacion}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		return
	}

	if err := h.Process(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= maxAttempts {
			SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		encoded, mErr := json.Marshal(job)
		if mErr != nil {
			log.Error().Err(mErr).Msg("failed to re-marshal job for retry")
			return
		}
		if pErr := p.rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
			log.Error().Err(pErr).Str("queue", queue).Msg("failed to requeue job")
		}
		log.Warn().Str("type", job.Type).Int("attempt", job.Attempts).Err(err).Msg("job failed, requeued")
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}
