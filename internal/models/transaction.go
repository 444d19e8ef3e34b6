package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// SplitShare is one member's slice of a shared expense. Amount is the
// authoritative value; Percentage is derived from it and kept for
// display.
type SplitShare struct {
	MemberUserID string          `json:"member_user_id"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// Transaction is one ledger entry. Exactly one of three shapes holds:
// a personal transaction (no HouseholdID), a household transaction
// (HouseholdID set, optionally carrying SplitInfo), or a split portion
// (IsSplitPortion with MainTransactionID pointing at the household
// transaction it was derived from).
type Transaction struct {
	ID                string          `json:"id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description,omitempty"`
	Date              time.Time       `json:"date"`
	CategoryID        string          `json:"category_id,omitempty"`
	OwnerUserID       string          `json:"owner_user_id,omitempty"`
	Kind              TransactionKind `json:"kind"`
	HouseholdID       string          `json:"household_id,omitempty"`
	SplitInfo         []SplitShare    `json:"split_info,omitempty"`
	IsSplitPortion    bool            `json:"is_split_portion,omitempty"`
	MainTransactionID string          `json:"main_transaction_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at,omitzero"`
	UpdatedAt         time.Time       `json:"updated_at,omitzero"`
}

func (t Transaction) IsHousehold() bool {
	return t.HouseholdID != ""
}

func (t Transaction) HasSplit() bool {
	return len(t.SplitInfo) > 0
}
