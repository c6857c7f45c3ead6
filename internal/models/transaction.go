package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the normalised direction of a transaction.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
	TransactionUnknown TransactionType = ""
)

// TransactionRecord is a ledger entry. Amount is never negative; Type carries the sign.
type TransactionRecord struct {
	ID       string          `json:"id"`
	Type     TransactionType `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     *time.Time      `json:"date,omitempty"`
	MemberID string          `json:"member_id,omitempty"`
	Status   string          `json:"status,omitempty"`
	Raw      Document        `json:"-"`
}

// IsPending reports whether the transaction has not settled yet.
func (t TransactionRecord) IsPending() bool {
	return t.Status == "pending"
}
