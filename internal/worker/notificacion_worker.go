package worker

// notificacion_worker.go
// Processes devolucion_procesada jobs from QueueNotificacion: mails a short
// aviso to the configured admin address. Best effort; a lost aviso never
// affects the return itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"fondapos/internal/infra"
	"fondapos/internal/repository"

	"github.com/google/uuid"
)

// DevolucionJobPayload is the job envelope sent to QueueNotificacion.
type DevolucionJobPayload struct {
	DevolucionID string `json:"devolucion_id"`
}

// NotificacionWorker emails return alerts to the admin channel.
type NotificacionWorker struct {
	devolucionRepo repository.DevolucionRepository
	mailer         *infra.Mailer
	nombreLocal    string
	adminEmail     string
}

func NewNotificacionWorker(devolucionRepo repository.DevolucionRepository, mailer *infra.Mailer, nombreLocal, adminEmail string) *NotificacionWorker {
	return &NotificacionWorker{
		devolucionRepo: devolucionRepo,
		mailer:         mailer,
		nombreLocal:    nombreLocal,
		adminEmail:     adminEmail,
	}
}

func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload DevolucionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("notificacion_worker: invalid payload: %w", err)
	}
	devolucionID, err := uuid.Parse(payload.DevolucionID)
	if err != nil {
		return fmt.Errorf("notificacion_worker: invalid devolucion_id %q", payload.DevolucionID)
	}

	dev, err := w.devolucionRepo.FindByID(ctx, devolucionID)
	if err != nil {
		return fmt.Errorf("notificacion_worker: load devolucion: %w", err)
	}

	subject := fmt.Sprintf("Devolución procesada en %s", w.nombreLocal)
	body := fmt.Sprintf(
		"Se procesó una devolución %s por $%s sobre la venta %s (reembolso: %s, motivo: %s).",
		dev.Tipo, dev.Total.StringFixed(2), dev.VentaID, dev.MetodoReembolso, dev.Motivo,
	)
	if err := w.mailer.Send(w.adminEmail, subject, body); err != nil {
		return fmt.Errorf("notificacion_worker: send email: %w", err)
	}
	return nil
}
