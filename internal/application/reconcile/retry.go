package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// IsTransient reports whether err is worth retrying: a store failure marked
// transient by the persistence layer or a unit that ran out of time.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, shared.ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}

// unit runs fn as one transactional unit under the per-unit timeout,
// retrying transient failures with exponential backoff. Any other error is
// returned after the first attempt.
func (s *Service) unit(ctx context.Context, name string, fn func(ctx context.Context, repos finance.Repositories) error) error {
	attempt := 0
	op := func() error {
		attempt++
		unitCtx, cancel := context.WithTimeout(ctx, s.cfg.UnitTimeout)
		defer cancel()

		err := s.uow.Do(unitCtx, fn)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryDelay
	b.MaxInterval = s.cfg.RetryMaxDelay
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.RetryAttempts-1)), ctx)
	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		s.log(ctx).Warn("Retrying transactional unit",
			zap.String("unit", name),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}
