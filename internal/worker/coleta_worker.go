package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"printmonitor/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPermanente marks failures that retrying cannot fix; the job goes
// straight to the DLQ.
var ErrPermanente = errors.New("falha permanente")

// ColetaWorker reads one printer's counter and stores it.
type ColetaWorker struct {
	svc service.ColetaService
}

func NewColetaWorker(svc service.ColetaService) *ColetaWorker {
	return &ColetaWorker{svc: svc}
}

func (w *ColetaWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p ColetaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("%w: payload: %v", ErrPermanente, err)
	}
	id, err := uuid.Parse(p.ImpressoraID)
	if err != nil {
		return fmt.Errorf("%w: impressora_id: %v", ErrPermanente, err)
	}

	_, err = w.svc.Coletar(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, service.ErrImpressoraInativa):
		return fmt.Errorf("%w: %v", ErrPermanente, err)
	default:
		return err
	}
}

// EnfileirarAtivas queues one job per collectable printer and returns how many.
func EnfileirarAtivas(ctx context.Context, svc service.ColetaService, d *Dispatcher) (int, error) {
	ids, err := svc.Alvos(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := d.EnqueueColeta(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
