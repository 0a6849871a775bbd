package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the ISO calendar date format used everywhere in the ledger.
const DateLayout = "2006-01-02"

// MaxAmountCents caps a single transaction at 1,000,000.00.
const MaxAmountCents int64 = 100_000_000

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID         int64
		Type       TransactionType
		Amount     Money
		Date       string // YYYY-MM-DD
		Category   string
		Account    string
		Note       string
		CreatedAt  string
		CategoryID *int64
		AccountID  *int64
	}

	Category struct {
		ID        int64
		Name      string
		ParentID  *int64
		Type      string // income / expense / both
		CreatedAt string
	}

	Account struct {
		ID        int64
		Name      string
		Type      string // cash / debit / credit / other
		CreatedAt string
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidCategory = errors.New("invalid category type")
	ErrInvalidAccount  = errors.New("invalid account type")
	ErrNotFound        = errors.New("not found")
)

// ParseDate parses an ISO YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	switch c.Type {
	case "income", "expense", "both":
		return nil
	default:
		return ErrInvalidCategory
	}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	switch a.Type {
	case "cash", "debit", "credit", "other":
		return nil
	default:
		return ErrInvalidAccount
	}
}
