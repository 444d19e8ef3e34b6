package ledger

import (
	"strings"
	"time"

	"homeledger/internal/models"
)

// Options narrows a transaction list. Every set field must match for a
// transaction to pass; unset fields match everything.
type Options struct {
	From time.Time
	To   time.Time

	// Kind filters to income or expense; empty keeps both.
	Kind models.TransactionKind

	// HouseholdID, when non-nil, is compared against the transaction's
	// household id as-is. A pointer to the empty string therefore
	// selects personal transactions.
	HouseholdID *string

	CategoryIDs []string
	SearchText  string
}

// Filter applies opts to txs, preserving order. Date bounds are
// inclusive.
func Filter(txs []models.Transaction, opts Options) []models.Transaction {
	search := strings.ToLower(strings.TrimSpace(opts.SearchText))

	catSet := make(map[string]bool, len(opts.CategoryIDs))
	for _, id := range opts.CategoryIDs {
		catSet[id] = true
	}

	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if !opts.From.IsZero() && t.Date.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && t.Date.After(opts.To) {
			continue
		}
		if opts.Kind != "" && t.Kind != opts.Kind {
			continue
		}
		if opts.HouseholdID != nil && t.HouseholdID != *opts.HouseholdID {
			continue
		}
		if len(catSet) > 0 && !catSet[t.CategoryID] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
