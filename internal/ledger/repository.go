// Package ledger is the transaction facade: every create, update,
// delete, and list of ledger entries goes through the Repository here,
// which owns validation, split reconciliation handoff, and the shared
// in-memory state.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"homeledger/internal/models"
	"homeledger/internal/repositories/docstore"
	"homeledger/internal/split"
	"homeledger/pkg/utils"
)

// MemberDirectory resolves household membership for split allocation
// and visibility checks.
type MemberDirectory interface {
	MembersOf(ctx context.Context, householdID string) ([]string, error)
}

type Repository struct {
	store      docstore.Store
	reconciler *split.Reconciler
	directory  MemberDirectory
	state      *State
	logger     *logrus.Logger
}

func NewRepository(store docstore.Store, reconciler *split.Reconciler, directory MemberDirectory, state *State, logger *logrus.Logger) *Repository {
	if logger == nil {
		logger = utils.Logger
	}
	return &Repository{
		store:      store,
		reconciler: reconciler,
		directory:  directory,
		state:      state,
		logger:     logger,
	}
}

// SplitRequest asks for a household expense to be shared across
// members. Shares are only read in manual mode.
type SplitRequest struct {
	Mode   split.Mode         `json:"mode"`
	Shares []split.ShareInput `json:"shares,omitempty"`
}

type SaveInput struct {
	ID          string
	OwnerUserID string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CategoryID  string
	Kind        models.TransactionKind
	HouseholdID string
	Split       *SplitRequest
}

// SaveResult carries the saved transaction plus the outcome of every
// portion write the save triggered. The save as a whole succeeds even
// when some portion writes failed; callers inspect Split for that.
type SaveResult struct {
	Transaction models.Transaction
	Split       split.Result
}

// Save creates or updates a personal or household transaction. For
// household transactions the split shares are allocated up front and
// the portion records reconciled after the main document is written.
// An update of a missing id fails with the store's not-found error
// before any portion is touched.
func (r *Repository) Save(ctx context.Context, input SaveInput) (SaveResult, error) {
	if err := r.validate(input); err != nil {
		return SaveResult{}, err
	}

	splitInfo, err := r.allocate(ctx, input)
	if err != nil {
		return SaveResult{}, err
	}

	// Stored timestamps carry second precision; truncating up front
	// keeps the in-memory copy identical to a later reload.
	now := time.Now().UTC().Truncate(time.Second)
	tx := models.Transaction{
		ID:          input.ID,
		Amount:      utils.Round2(input.Amount),
		Description: input.Description,
		Date:        input.Date.UTC().Truncate(time.Second),
		CategoryID:  input.CategoryID,
		OwnerUserID: input.OwnerUserID,
		Kind:        input.Kind,
		HouseholdID: input.HouseholdID,
		SplitInfo:   splitInfo,
		UpdatedAt:   now,
	}

	reconcile := tx.IsHousehold()
	if input.ID == "" {
		tx.CreatedAt = now
		id, err := r.store.Create(ctx, models.CollectionTransactions, tx.Document())
		if err != nil {
			return SaveResult{}, utils.ErrorHandler(err, "failed to create transaction")
		}
		tx.ID = id
	} else {
		existing, err := r.load(ctx, input.ID)
		if err != nil {
			return SaveResult{}, err
		}
		if existing.OwnerUserID != input.OwnerUserID {
			return SaveResult{}, ErrForbidden
		}
		if existing.IsSplitPortion {
			return SaveResult{}, invalid("split portions are managed through their main transaction")
		}

		tx.CreatedAt = existing.CreatedAt
		if err := r.store.Update(ctx, models.CollectionTransactions, tx.ID, tx.DocumentPatch()); err != nil {
			return SaveResult{}, utils.ErrorHandler(err, "failed to update transaction")
		}

		// A transaction moved out of a household may still have
		// portions to clean up.
		reconcile = reconcile || existing.IsHousehold()
	}

	result := SaveResult{Transaction: tx}
	if reconcile {
		splitResult, err := r.reconciler.Reconcile(ctx, tx)
		result.Split = splitResult
		if err != nil {
			r.state.UpsertTransaction(tx)
			return result, err
		}
		if splitResult.Partial() {
			r.logger.WithFields(logrus.Fields{
				"transactionId":  tx.ID,
				"failedPortions": len(splitResult.Failed()),
			}).Warn("transaction saved with a partial split")
		}
	}

	r.state.UpsertTransaction(tx)
	return result, nil
}

// Delete removes a transaction. For a split household transaction the
// portions are deleted first, best-effort; the main record and the
// in-memory entry go away regardless of how the portion cleanup fared.
func (r *Repository) Delete(ctx context.Context, ownerUserID, id string) (split.Result, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return split.Result{}, err
	}
	if existing.OwnerUserID != ownerUserID {
		return split.Result{}, ErrForbidden
	}
	if existing.IsSplitPortion {
		return split.Result{}, invalid("split portions are managed through their main transaction")
	}

	var result split.Result
	if existing.IsHousehold() && existing.HasSplit() {
		result, err = r.reconciler.RemoveAll(ctx, id)
		if err != nil {
			// Orphaned portions can be swept later; the delete itself
			// goes ahead.
			r.logger.WithFields(logrus.Fields{
				"transactionId": id,
			}).WithError(err).Error("failed to read portions during delete")
		}
	}

	if err := r.store.Delete(ctx, models.CollectionTransactions, id); err != nil {
		return result, utils.ErrorHandler(err, "failed to delete transaction")
	}

	r.state.RemoveTransaction(id)
	r.state.RemovePortionsOf(id)
	return result, nil
}

// List loads the transactions visible to a user: everything they own,
// plus everything in their household when householdID is non-empty,
// including portions held by other members. The result replaces the
// state container's transaction set.
func (r *Repository) List(ctx context.Context, ownerUserID, householdID string) ([]models.Transaction, error) {
	docs, err := r.store.Query(ctx, models.CollectionTransactions,
		docstore.Eq("ownerUserId", ownerUserID))
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list transactions")
	}

	if householdID != "" {
		hhDocs, err := r.store.Query(ctx, models.CollectionTransactions,
			docstore.Eq("householdId", householdID))
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to list household transactions")
		}
		docs = append(docs, hhDocs...)
	}

	seen := make(map[string]bool, len(docs))
	out := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		t, err := models.DecodeTransaction(doc)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}

	sortTransactions(out)
	r.state.SetTransactions(out)
	return out, nil
}

// Get returns one transaction the user may see: their own, or any
// entry of a household they belong to.
func (r *Repository) Get(ctx context.Context, userID, id string) (models.Transaction, error) {
	t, err := r.load(ctx, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if t.OwnerUserID == userID {
		return t, nil
	}
	if t.IsHousehold() {
		members, err := r.directory.MembersOf(ctx, t.HouseholdID)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("failed to resolve household members: %w", err)
		}
		if slices.Contains(members, userID) {
			return t, nil
		}
	}
	return models.Transaction{}, ErrForbidden
}

func (r *Repository) load(ctx context.Context, id string) (models.Transaction, error) {
	doc, err := r.store.Get(ctx, models.CollectionTransactions, id)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.DecodeTransaction(doc)
}

func (r *Repository) validate(input SaveInput) error {
	if input.OwnerUserID == "" {
		return invalid("missing owner")
	}
	if !input.Amount.IsPositive() {
		return invalid("amount must be positive, got %s", input.Amount)
	}
	if input.Kind != models.KindIncome && input.Kind != models.KindExpense {
		return invalid("unknown kind %q", input.Kind)
	}
	if input.Date.IsZero() {
		return invalid("missing date")
	}
	if strings.TrimSpace(input.Description) == "" {
		return invalid("missing description")
	}
	if input.Split != nil {
		if input.HouseholdID == "" {
			return invalid("split requires a household transaction")
		}
		if input.Kind != models.KindExpense {
			return invalid("only expenses can be split")
		}
	}
	return nil
}

func (r *Repository) allocate(ctx context.Context, input SaveInput) ([]models.SplitShare, error) {
	if input.HouseholdID == "" || input.Split == nil {
		return nil, nil
	}

	members, err := r.directory.MembersOf(ctx, input.HouseholdID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve household members: %w", err)
	}
	if !slices.Contains(members, input.OwnerUserID) {
		return nil, invalid("owner is not a member of household %s", input.HouseholdID)
	}

	var inputs []split.ShareInput
	switch input.Split.Mode {
	case split.ModeEqual:
		inputs = make([]split.ShareInput, 0, len(members))
		for _, m := range members {
			inputs = append(inputs, split.ShareInput{MemberUserID: m})
		}
	case split.ModeManual:
		for _, s := range input.Split.Shares {
			if !slices.Contains(members, s.MemberUserID) {
				return nil, invalid("share for %s, who is not a household member", s.MemberUserID)
			}
		}
		inputs = input.Split.Shares
	default:
		return nil, invalid("unknown split mode %q", input.Split.Mode)
	}

	return split.Allocate(utils.Round2(input.Amount), inputs, input.Split.Mode)
}
