package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mkorolev/ledger-service/internal/domain/entity"
	errs "github.com/mkorolev/ledger-service/internal/domain/error"
	"github.com/mkorolev/ledger-service/internal/domain/event"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	eventport "github.com/mkorolev/ledger-service/internal/domain/port/event"
	"github.com/mkorolev/ledger-service/internal/domain/port/persistence"
	"github.com/mkorolev/ledger-service/internal/domain/port/usecase"
)

// Engine owns the write path to balances and ledger entries. All coordination
// between concurrent requests is delegated to the store's row locks inside a
// unit of work; the engine itself keeps no shared mutable state.
type Engine struct {
	uow          persistence.UnitOfWork
	publisher    eventport.Publisher
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	retry        RetryPolicy
}

// NewEngine creates a ledger engine
func NewEngine(
	uow persistence.UnitOfWork,
	publisher eventport.Publisher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	retry RetryPolicy,
) *Engine {
	return &Engine{
		uow:          uow,
		publisher:    publisher,
		timeProvider: timeProvider,
		logger:       logger,
		retry:        retry,
	}
}

// GetBalance returns the current balance for a user. The read runs outside
// any unit of work and takes no locks; the store's read isolation guarantees
// it never observes a balance mid-mutation.
func (e *Engine) GetBalance(ctx context.Context, userID uint64) (*usecase.BalanceResponse, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	balance, err := e.uow.GetBalanceRepository(ctx).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &usecase.BalanceResponse{
		UserID:  balance.UserID,
		Balance: balance.FormattedAmount(),
	}, nil
}

// InitBalance creates the zero balance row for a freshly created user. When
// ctx carries an open unit of work the insert joins it, so the "every user
// has exactly one balance" invariant holds from the moment of creation.
func (e *Engine) InitBalance(ctx context.Context, userID uint64) error {
	balance, err := entity.NewBalance(userID, e.timeProvider)
	if err != nil {
		return err
	}

	if err := e.uow.GetBalanceRepository(ctx).Create(ctx, balance); err != nil {
		return err
	}

	e.logger.Info("Balance initialized", map[string]any{
		"user_id": userID,
	})
	return nil
}

// Credit adds a positive amount to a user's balance and appends one CREDIT
// ledger entry, all in one atomic unit. A single-row operation has no
// deadlock exposure, so there is no retry loop: any failure rolls the unit
// back and surfaces to the caller.
func (e *Engine) Credit(ctx context.Context, userID uint64, amount string) (*usecase.BalanceResponse, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	cents, err := entity.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	balanceRepo := e.uow.GetBalanceRepository(txCtx)

	balance, err := balanceRepo.GetForUpdate(txCtx, userID)
	if err != nil {
		e.abort(txCtx)
		return nil, err
	}

	if err := balance.Credit(cents, e.timeProvider); err != nil {
		e.abort(txCtx)
		return nil, err
	}

	if err := balanceRepo.Update(txCtx, balance); err != nil {
		e.abort(txCtx)
		return nil, err
	}

	entry, err := entity.NewLedgerEntry(userID, entity.EntryTypeCredit, cents, entity.ReasonAddBalance, e.timeProvider)
	if err != nil {
		e.abort(txCtx)
		return nil, err
	}

	if err := e.uow.GetLedgerRepository(txCtx).Append(txCtx, entry); err != nil {
		e.abort(txCtx)
		return nil, err
	}

	if err := e.uow.Commit(txCtx); err != nil {
		return nil, err
	}

	e.logger.Info("Balance credited", map[string]any{
		"user_id":     userID,
		"amount":      entity.FormatAmount(cents),
		"new_balance": balance.FormattedAmount(),
	})

	e.publish(event.TopicBalanceCredited, event.NewBalanceCredited(
		userID, entity.FormatAmount(cents), balance.FormattedAmount(), e.timeProvider.Now()))

	return &usecase.BalanceResponse{
		UserID:  balance.UserID,
		Balance: balance.FormattedAmount(),
	}, nil
}

// Transfer atomically moves a positive amount from one user to another.
//
// Deadlock avoidance: both balance rows are locked by ONE query over the
// participant IDs sorted ascending, so any two concurrent transfers touching
// the same pair request locks in the same global order and the store's lock
// manager cannot form a cycle between them. Conflicts the store still
// reports are absorbed by a bounded retry loop; each retry re-runs the whole
// unit from scratch, including the funds check, because state may have
// changed in between.
func (e *Engine) Transfer(ctx context.Context, fromUserID, toUserID uint64, amount string) (*usecase.TransferResult, error) {
	if fromUserID == 0 || toUserID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if fromUserID == toUserID {
		return nil, errs.ErrSelfTransfer
	}

	cents, err := entity.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= e.retry.MaxAttempts; attempt++ {
		err := e.transferOnce(ctx, fromUserID, toUserID, cents)
		if err == nil {
			e.logger.Info("Transfer completed", map[string]any{
				"from_user_id": fromUserID,
				"to_user_id":   toUserID,
				"amount":       entity.FormatAmount(cents),
				"attempts":     attempt,
			})

			e.publish(event.TopicTransferCompleted, event.NewTransferCompleted(
				fromUserID, toUserID, entity.FormatAmount(cents), attempt, e.timeProvider.Now()))

			return &usecase.TransferResult{Success: true, Attempts: attempt}, nil
		}

		// Domain errors and plain store failures are not transient;
		// retrying them wastes effort and must fail fast.
		if !errs.IsTransientConflictError(err) {
			return nil, err
		}

		lastErr = err
		if attempt == e.retry.MaxAttempts {
			break
		}

		backoff := e.retry.Backoff(attempt)
		e.logger.Warn("Transient conflict during transfer, retrying", map[string]any{
			"from_user_id": fromUserID,
			"to_user_id":   toUserID,
			"attempt":      attempt,
			"max_attempts": e.retry.MaxAttempts,
			"retry_after":  backoff.String(),
			"error":        err.Error(),
		})

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.logger.Error("Transfer retries exhausted", map[string]any{
		"from_user_id": fromUserID,
		"to_user_id":   toUserID,
		"amount":       entity.FormatAmount(cents),
		"attempts":     e.retry.MaxAttempts,
		"error":        lastErr.Error(),
	})

	return nil, errs.NewTransferError(fromUserID, toUserID, entity.FormatAmount(cents), e.retry.MaxAttempts,
		fmt.Errorf("%w: conflict persisted after %d attempts: %v", errs.ErrStoreFailure, e.retry.MaxAttempts, lastErr))
}

// transferOnce runs one attempt as a single atomic unit: lock both rows in
// canonical order, validate funds, mutate both balances and append the
// debit/credit entry pair. Any error rolls the whole unit back, so no
// partial transfer is ever observable.
func (e *Engine) transferOnce(ctx context.Context, fromUserID, toUserID uint64, cents int64) error {
	txCtx, err := e.uow.Begin(ctx)
	if err != nil {
		return err
	}

	balanceRepo := e.uow.GetBalanceRepository(txCtx)

	ids := []uint64{fromUserID, toUserID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	balances, err := balanceRepo.LockForUpdate(txCtx, ids)
	if err != nil {
		e.abort(txCtx)
		return err
	}
	if len(balances) < 2 {
		e.abort(txCtx)
		return errs.ErrBalanceNotFound
	}

	var from, to *entity.Balance
	for _, b := range balances {
		switch b.UserID {
		case fromUserID:
			from = b
		case toUserID:
			to = b
		}
	}
	if from == nil || to == nil {
		e.abort(txCtx)
		return errs.ErrBalanceNotFound
	}

	if !from.CanDeduct(cents) {
		e.abort(txCtx)
		return errs.NewInsufficientFundsError(fromUserID, entity.FormatAmount(cents), from.FormattedAmount())
	}

	if err := from.Debit(cents, e.timeProvider); err != nil {
		e.abort(txCtx)
		return err
	}
	if err := to.Credit(cents, e.timeProvider); err != nil {
		e.abort(txCtx)
		return err
	}

	if err := balanceRepo.Update(txCtx, from); err != nil {
		e.abort(txCtx)
		return err
	}
	if err := balanceRepo.Update(txCtx, to); err != nil {
		e.abort(txCtx)
		return err
	}

	debit, credit, err := entity.NewTransferEntries(fromUserID, toUserID, cents, e.timeProvider)
	if err != nil {
		e.abort(txCtx)
		return err
	}

	if err := e.uow.GetLedgerRepository(txCtx).Append(txCtx, debit, credit); err != nil {
		e.abort(txCtx)
		return err
	}

	return e.uow.Commit(txCtx)
}

// ListEntries returns the ledger entries recorded for a user, newest first
func (e *Engine) ListEntries(ctx context.Context, userID uint64) ([]usecase.LedgerEntryResponse, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}

	entries, err := e.uow.GetLedgerRepository(ctx).ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]usecase.LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, usecase.LedgerEntryResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Type:      string(entry.Type),
			Amount:    entry.Amount,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return responses, nil
}

// abort rolls back the current unit; rollback failures are logged, the
// original error always wins.
func (e *Engine) abort(txCtx context.Context) {
	if err := e.uow.Rollback(txCtx); err != nil {
		e.logger.Error("Failed to roll back atomic unit", map[string]any{
			"error": err.Error(),
		})
	}
}

// publish delivers a domain event best-effort. Publishing runs after commit
// and never fails the operation.
func (e *Engine) publish(topic string, evt any) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(topic, evt); err != nil {
		e.logger.Warn("Failed to publish event", map[string]any{
			"topic": topic,
			"error": err.Error(),
		})
	}
}
