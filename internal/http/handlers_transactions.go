package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger/internal/core"
)

// transactionRequest is the JSON body for creating or updating a
// transaction. The amount can be given as integer cents or as a decimal
// string ("12.34"); cents win when both are present.
type transactionRequest struct {
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Account     string `json:"account"`
	Note        string `json:"note"`
	CategoryID  *int64 `json:"category_id"`
	AccountID   *int64 `json:"account_id"`
}

func (req transactionRequest) toDomain() (core.Transaction, error) {
	cents := req.AmountCents
	if cents == 0 && req.Amount != "" {
		parsed, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.Transaction{}, err
		}
		cents = parsed
	}

	return core.Transaction{
		Type:       core.TransactionType(req.Type),
		Amount:     core.Money{Cents: cents},
		Date:       sanitizeInput(req.Date),
		Category:   sanitizeInput(req.Category),
		Account:    sanitizeInput(req.Account),
		Note:       sanitizeInput(req.Note),
		CategoryID: req.CategoryID,
		AccountID:  req.AccountID,
	}, nil
}

type transactionResponse struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	AmountCents int64   `json:"amount_cents"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category,omitempty"`
	Account     string  `json:"account,omitempty"`
	Note        string  `json:"note,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	AccountID   *int64  `json:"account_id,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.Display(),
		Date:        t.Date,
		Category:    t.Category,
		Account:     t.Account,
		Note:        t.Note,
		CreatedAt:   t.CreatedAt,
		CategoryID:  t.CategoryID,
		AccountID:   t.AccountID,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.txService.CreateTransaction(r.Context(), t)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !isValidationError(err) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	t.ID = id
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")

	var (
		txs []core.Transaction
		err error
	)
	if start != "" || end != "" {
		if start == "" || end == "" {
			writeError(w, http.StatusBadRequest, "both start and end are required for a range query")
			return
		}
		txs, err = s.store.ListTransactionsByDateRange(r.Context(), start, end)
	} else {
		txs, err = s.store.ListTransactions(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := make([]transactionResponse, len(txs))
	for i, t := range txs {
		result[i] = toTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.store.GetTransaction(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	t.ID = id

	if err := s.txService.UpdateTransaction(r.Context(), t); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.txService.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrNoteTooLong) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrInvalidAccount)
}
