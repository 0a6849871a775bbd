// Package worker contains the background consumer that turns transaction
// change events into an append-only audit trail.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/storage"
)

// AuditWorker appends one JSON line per transaction change event to an
// audit log file. Deleted transactions are recorded without a snapshot
// since the row is already gone.
type AuditWorker struct {
	store storage.Store
	path  string

	mu sync.Mutex
}

type auditRecord struct {
	ID         int64             `json:"id"`
	Action     string            `json:"action"`
	OccurredAt time.Time         `json:"occurred_at"`
	RecordedAt time.Time         `json:"recorded_at"`
	Snapshot   *auditTransaction `json:"transaction,omitempty"`
}

type auditTransaction struct {
	Type        core.TransactionType `json:"type"`
	AmountCents int64                `json:"amount_cents"`
	Date        string               `json:"date"`
	Category    string               `json:"category,omitempty"`
	Account     string               `json:"account,omitempty"`
	Note        string               `json:"note,omitempty"`
}

func NewAuditWorker(store storage.Store, path string) (*AuditWorker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	return &AuditWorker{store: store, path: path}, nil
}

// HandleEvent is the AMQP consumer callback.
func (w *AuditWorker) HandleEvent(msg *amqp.TransactionEventMessage) error {
	return w.record(context.Background(), msg)
}

func (w *AuditWorker) record(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	rec := auditRecord{
		ID:         msg.ID,
		Action:     msg.Action,
		OccurredAt: msg.OccurredAt,
		RecordedAt: time.Now().UTC(),
	}

	if msg.Action != amqp.ActionDeleted {
		t, err := w.store.GetTransaction(ctx, msg.ID)
		switch {
		case errors.Is(err, core.ErrNotFound):
			// Row deleted between event and consumption; log without snapshot.
		case err != nil:
			return fmt.Errorf("load transaction %d: %w", msg.ID, err)
		default:
			rec.Snapshot = &auditTransaction{
				Type:        t.Type,
				AmountCents: t.Amount.Cents,
				Date:        t.Date,
				Category:    t.Category,
				Account:     t.Account,
				Note:        t.Note,
			}
		}
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
