package split

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"homeledger/internal/models"
	"homeledger/internal/repositories/docstore"
	"homeledger/pkg/utils"
)

// Reconciler converges the persisted portion transactions of a main
// household transaction onto its current split shares.
type Reconciler struct {
	store  docstore.Store
	logger *logrus.Logger
}

func NewReconciler(store docstore.Store, logger *logrus.Logger) *Reconciler {
	if logger == nil {
		logger = utils.Logger
	}
	return &Reconciler{store: store, logger: logger}
}

// Reconcile diffs main's qualifying shares against the stored portions
// and creates, updates, and deletes portions until they match. Every
// portion write is independent: a failure is logged and recorded in
// the result while the remaining writes continue, leaving a partial
// split rather than a failed operation.
//
// The main transaction must already be persisted. Reading the existing
// portions is the one step that aborts the run, since without it there
// is nothing to diff against.
func (r *Reconciler) Reconcile(ctx context.Context, main models.Transaction) (Result, error) {
	if main.ID == "" {
		return Result{}, invalid("main transaction has no id")
	}
	if main.IsSplitPortion {
		return Result{}, invalid("cannot reconcile a split portion")
	}

	existing, err := r.portions(ctx, main.ID)
	if err != nil {
		return Result{}, err
	}

	desired := Qualifying(main.SplitInfo, main.OwnerUserID)
	if !main.IsHousehold() {
		desired = nil
	}

	// First portion per member wins; duplicates fall through to the
	// delete pass below.
	byMember := make(map[string]models.Transaction, len(existing))
	for _, p := range existing {
		if _, ok := byMember[p.OwnerUserID]; !ok {
			byMember[p.OwnerUserID] = p
		}
	}

	var result Result
	now := time.Now().UTC()
	kept := make(map[string]bool, len(desired))

	for _, share := range desired {
		current, ok := byMember[share.MemberUserID]
		if !ok {
			result.add(r.createPortion(ctx, main, share, now))
			continue
		}
		kept[current.ID] = true
		if portionMatches(current, main, share) {
			continue
		}
		result.add(r.updatePortion(ctx, main, share, current.ID, now))
	}

	for _, p := range existing {
		if !kept[p.ID] {
			result.add(r.deletePortion(ctx, main.ID, p))
		}
	}

	return result, nil
}

// RemoveAll deletes every portion derived from the main transaction,
// best-effort. Used when the main transaction itself goes away.
func (r *Reconciler) RemoveAll(ctx context.Context, mainID string) (Result, error) {
	existing, err := r.portions(ctx, mainID)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, p := range existing {
		result.add(r.deletePortion(ctx, mainID, p))
	}
	return result, nil
}

func (r *Reconciler) portions(ctx context.Context, mainID string) ([]models.Transaction, error) {
	docs, err := r.store.Query(ctx, models.CollectionTransactions,
		docstore.Eq("mainTransactionId", mainID),
		docstore.Eq("isSplitPortion", true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read portions of %s: %w", mainID, err)
	}

	out := make([]models.Transaction, 0, len(docs))
	for _, doc := range docs {
		p, err := models.DecodeTransaction(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Reconciler) createPortion(ctx context.Context, main models.Transaction, share models.SplitShare, now time.Time) Outcome {
	portion := portionFor(main, share)
	portion.CreatedAt = now
	portion.UpdatedAt = now

	id, err := r.store.Create(ctx, models.CollectionTransactions, portion.Document())
	o := Outcome{Op: OpCreate, MemberUserID: share.MemberUserID, TransactionID: id, Err: err}
	r.observe(main.ID, o)
	return o
}

func (r *Reconciler) updatePortion(ctx context.Context, main models.Transaction, share models.SplitShare, portionID string, now time.Time) Outcome {
	portion := portionFor(main, share)
	portion.UpdatedAt = now

	err := r.store.Update(ctx, models.CollectionTransactions, portionID, portion.DocumentPatch())
	o := Outcome{Op: OpUpdate, MemberUserID: share.MemberUserID, TransactionID: portionID, Err: err}
	r.observe(main.ID, o)
	return o
}

func (r *Reconciler) deletePortion(ctx context.Context, mainID string, portion models.Transaction) Outcome {
	err := r.store.Delete(ctx, models.CollectionTransactions, portion.ID)
	o := Outcome{Op: OpDelete, MemberUserID: portion.OwnerUserID, TransactionID: portion.ID, Err: err}
	r.observe(mainID, o)
	return o
}

func (r *Reconciler) observe(mainID string, o Outcome) {
	if o.Err == nil {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"mainTransactionId": mainID,
		"memberUserId":      o.MemberUserID,
		"op":                string(o.Op),
	}).WithError(o.Err).Error("portion write failed, continuing with remaining portions")
}

// portionFor derives the portion transaction a member sees in their
// own ledger from the main transaction and their share.
func portionFor(main models.Transaction, share models.SplitShare) models.Transaction {
	return models.Transaction{
		Amount:            share.Amount,
		Description:       main.Description,
		Date:              main.Date,
		CategoryID:        main.CategoryID,
		OwnerUserID:       share.MemberUserID,
		Kind:              main.Kind,
		HouseholdID:       main.HouseholdID,
		IsSplitPortion:    true,
		MainTransactionID: main.ID,
	}
}

func portionMatches(current, main models.Transaction, share models.SplitShare) bool {
	return current.Amount.Equal(share.Amount) &&
		current.Description == main.Description &&
		current.Date.Equal(main.Date) &&
		current.CategoryID == main.CategoryID &&
		current.Kind == main.Kind &&
		current.HouseholdID == main.HouseholdID
}
