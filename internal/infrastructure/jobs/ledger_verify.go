// Package jobs trabajos en segundo plano sobre asynq.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

const (
	// QueueDefault cola por defecto.
	QueueDefault = "default"
	// TaskLedgerVerify recalcula los saldos desde el ledger.
	TaskLedgerVerify = "ledger:verify"
)

// LedgerVerifyPayload parámetros de la tarea.
type LedgerVerifyPayload struct {
	Repair bool `json:"repair"`
}

// NewLedgerVerifyTask construye la tarea asynq. El payload es fijo para que el scheduler pueda reutilizarla.
func NewLedgerVerifyTask(repair bool) (*asynq.Task, error) {
	body, err := json.Marshal(LedgerVerifyPayload{Repair: repair})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerVerify, body, asynq.Queue(QueueDefault)), nil
}

// LedgerVerifier lo que el job necesita del motor de inventario.
type LedgerVerifier interface {
	VerifyLedger(ctx context.Context, repair bool) (*inventory.LedgerAudit, error)
}

// LedgerVerifyJob ejecuta VerifyLedger y registra el resultado.
type LedgerVerifyJob struct {
	verifier LedgerVerifier
	log      *logger.Logger
}

// NewLedgerVerifyJob construye el handler.
func NewLedgerVerifyJob(verifier LedgerVerifier, log *logger.Logger) *LedgerVerifyJob {
	return &LedgerVerifyJob{verifier: verifier, log: logger.OrNop(log).Component("ledger_verify")}
}

// Handle procesa TaskLedgerVerify. Un payload ilegible no se reintenta.
func (j *LedgerVerifyJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.verifier == nil {
		return errors.New("ledger verify: handler no configurado")
	}
	var payload LedgerVerifyPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			j.log.Error().Err(err).Msg("payload de ledger:verify inválido")
			return asynq.SkipRetry
		}
	}
	start := time.Now()
	audit, err := j.verifier.VerifyLedger(ctx, payload.Repair)
	if err != nil {
		j.log.Error().Err(err).Bool("repair", payload.Repair).Msg("verificación de ledger fallida")
		return err
	}
	j.log.Info().
		Int("checked", audit.Checked).
		Int("discrepancies", len(audit.Discrepancies)).
		Bool("repaired", audit.Repaired).
		Dur("elapsed", time.Since(start)).
		Msg("tarea ledger:verify terminada")
	return nil
}
