package worker

// ticket_worker.go
// Processes ticket jobs from QueueTicket: renders the PDF receipt of a sale
// and mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"fondapos/internal/infra"
	"fondapos/internal/repository"

	"github.com/google/uuid"
)

// TicketJobPayload is the job envelope sent to QueueTicket.
type TicketJobPayload struct {
	VentaID string `json:"venta_id"`
	ToEmail string `json:"to_email"`
}

// TicketWorker renders and emails sale receipts.
type TicketWorker struct {
	ventaRepo   repository.VentaRepository
	mailer      *infra.Mailer
	nombreLocal string
	storagePath string
}

func NewTicketWorker(ventaRepo repository.VentaRepository, mailer *infra.Mailer, nombreLocal, storagePath string) *TicketWorker {
	return &TicketWorker{
		ventaRepo:   ventaRepo,
		mailer:      mailer,
		nombreLocal: nombreLocal,
		storagePath: storagePath,
	}
}

func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("ticket_worker: invalid payload: %w", err)
	}
	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("ticket_worker: invalid venta_id %q", payload.VentaID)
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return fmt.Errorf("ticket_worker: load venta: %w", err)
	}

	pdfPath, err := infra.GenerateTicketPDF(venta, w.nombreLocal, w.storagePath)
	if err != nil {
		return fmt.Errorf("ticket_worker: render pdf: %w", err)
	}

	subject := fmt.Sprintf("Su comprobante de %s", w.nombreLocal)
	body := fmt.Sprintf("Gracias por su visita. Adjuntamos el comprobante de su compra por $%s.", venta.Total.StringFixed(2))
	if err := w.mailer.SendTicket(payload.ToEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("ticket_worker: send email: %w", err)
	}
	return nil
}
