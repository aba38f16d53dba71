package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela) la transacción se revierte completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error
}

// ReportInvalidator invalida los reportes cacheados tras una escritura confirmada.
type ReportInvalidator interface {
	Bump(ctx context.Context) error
}

type timeoutRunner struct {
	next    TxRunner
	timeout time.Duration
}

// WithTimeout limita la duración de cada transacción. Al vencer el plazo la transacción se revierte
// y el llamador recibe domain.ErrConcurrencyConflict (reintentable).
func WithTimeout(next TxRunner, timeout time.Duration) TxRunner {
	if timeout <= 0 {
		return next
	}
	return &timeoutRunner{next: next, timeout: timeout}
}

func (r *timeoutRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.next.Run(tctx, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: la transacción superó %s", domain.ErrConcurrencyConflict, r.timeout)
	}
	return err
}
