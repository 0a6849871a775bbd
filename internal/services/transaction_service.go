// Package services orchestrates writes across storage and the event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/storage"
)

// TransactionService validates and persists transactions, then publishes
// change events. Storage is the source of truth: a failed publish is
// logged but never fails the request.
type TransactionService struct {
	store      storage.Store
	amqpClient *amqp.Client
}

func NewTransactionService(store storage.Store, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// CreateTransaction validates and saves a transaction, returning its ID.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, id, amqp.ActionCreated)
	return id, nil
}

// UpdateTransaction validates and rewrites an existing transaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, t.ID, amqp.ActionUpdated)
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, id int64, action string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event", "id", id, "action", action)
		return
	}
	if err := s.amqpClient.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
