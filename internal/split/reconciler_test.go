package split

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeledger/internal/models"
	"homeledger/internal/repositories/docstore"
)

var testDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func mainTransaction(id string, shares ...models.SplitShare) models.Transaction {
	return models.Transaction{
		ID:          id,
		Amount:      dec("100"),
		Description: "weekly groceries",
		Date:        testDate,
		CategoryID:  "cat-groceries",
		OwnerUserID: "owner",
		Kind:        models.KindExpense,
		HouseholdID: "hh-1",
		SplitInfo:   shares,
	}
}

func seedMain(t *testing.T, store docstore.Store, tx models.Transaction) models.Transaction {
	t.Helper()
	id, err := store.Create(context.Background(), models.CollectionTransactions, tx.Document())
	require.NoError(t, err)
	tx.ID = id
	return tx
}

func storedPortions(t *testing.T, store docstore.Store, mainID string) map[string]models.Transaction {
	t.Helper()
	docs, err := store.Query(context.Background(), models.CollectionTransactions,
		docstore.Eq("mainTransactionId", mainID),
		docstore.Eq("isSplitPortion", true))
	require.NoError(t, err)

	out := make(map[string]models.Transaction, len(docs))
	for _, d := range docs {
		p, err := models.DecodeTransaction(d)
		require.NoError(t, err)
		out[p.OwnerUserID] = p
	}
	return out
}

func TestReconcile_CreatesPortionsForQualifyingShares(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "owner", Amount: dec("40"), Percentage: dec("40")},
		models.SplitShare{MemberUserID: "bob", Amount: dec("35"), Percentage: dec("35")},
		models.SplitShare{MemberUserID: "carol", Amount: dec("25"), Percentage: dec("25")},
	))

	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.False(t, result.Partial())

	// The owner's share never materializes as a portion
	portions := storedPortions(t, store, main.ID)
	require.Len(t, portions, 2)

	bob := portions["bob"]
	assert.Equal(t, "35", bob.Amount.String())
	assert.Equal(t, "weekly groceries", bob.Description)
	assert.True(t, bob.Date.Equal(testDate))
	assert.Equal(t, "cat-groceries", bob.CategoryID)
	assert.Equal(t, models.KindExpense, bob.Kind)
	assert.Equal(t, "hh-1", bob.HouseholdID)
	assert.True(t, bob.IsSplitPortion)
	assert.Equal(t, main.ID, bob.MainTransactionID)
	assert.Empty(t, bob.SplitInfo)
}

func TestReconcile_ConvergesOnNewShares(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "alice", Amount: dec("40")},
		models.SplitShare{MemberUserID: "bob", Amount: dec("60")},
	))
	_, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	before := storedPortions(t, store, main.ID)
	bobID := before["bob"].ID

	// New shares: alice drops out, bob's amount changes, carol joins
	main.SplitInfo = []models.SplitShare{
		{MemberUserID: "bob", Amount: dec("70")},
		{MemberUserID: "carol", Amount: dec("30")},
	}

	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	ops := make(map[string]OpKind, len(result.Outcomes))
	for _, o := range result.Outcomes {
		require.NoError(t, o.Err)
		ops[o.MemberUserID] = o.Op
	}
	assert.Equal(t, OpUpdate, ops["bob"])
	assert.Equal(t, OpCreate, ops["carol"])
	assert.Equal(t, OpDelete, ops["alice"])

	after := storedPortions(t, store, main.ID)
	require.Len(t, after, 2)
	assert.Equal(t, "70", after["bob"].Amount.String())
	assert.Equal(t, bobID, after["bob"].ID)
	assert.Equal(t, "30", after["carol"].Amount.String())
	assert.NotContains(t, after, "alice")
}

func TestReconcile_UnchangedSharesWriteNothing(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("50")},
	))
	_, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	assert.Empty(t, result.Outcomes)
}

func TestReconcile_RemovedSplitDeletesAllPortions(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("50")},
		models.SplitShare{MemberUserID: "carol", Amount: dec("50")},
	))
	_, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	require.Len(t, storedPortions(t, store, main.ID), 2)

	main.SplitInfo = nil
	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	for _, o := range result.Outcomes {
		assert.Equal(t, OpDelete, o.Op)
	}
	assert.Empty(t, storedPortions(t, store, main.ID))
}

func TestReconcile_LeavingHouseholdDeletesPortions(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("50")},
	))
	_, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	// The transaction became personal; its split info is stale but the
	// portions must still go away.
	main.HouseholdID = ""

	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, OpDelete, result.Outcomes[0].Op)
	assert.Empty(t, storedPortions(t, store, main.ID))
}

func TestReconcile_DuplicatePortionsCollapse(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("50")},
	))

	// Two portions for the same member, as a crashed earlier run could
	// leave behind
	dup := portionFor(main, models.SplitShare{MemberUserID: "bob", Amount: dec("50")})
	_, err := store.Create(context.Background(), models.CollectionTransactions, dup.Document())
	require.NoError(t, err)
	_, err = store.Create(context.Background(), models.CollectionTransactions, dup.Document())
	require.NoError(t, err)

	_, err = rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	docs, err := store.Query(context.Background(), models.CollectionTransactions,
		docstore.Eq("mainTransactionId", main.ID),
		docstore.Eq("isSplitPortion", true))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestReconcile_RejectsBadInput(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)
	var vErr *ValidationError

	_, err := rec.Reconcile(context.Background(), models.Transaction{})
	require.ErrorAs(t, err, &vErr)

	portion := models.Transaction{ID: "p1", IsSplitPortion: true, MainTransactionID: "m1"}
	_, err = rec.Reconcile(context.Background(), portion)
	require.ErrorAs(t, err, &vErr)
}

func TestRemoveAll_DeletesEveryPortion(t *testing.T) {
	store := docstore.NewMemory()
	rec := NewReconciler(store, nil)

	main := seedMain(t, store, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("50")},
		models.SplitShare{MemberUserID: "carol", Amount: dec("50")},
	))
	_, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	result, err := rec.RemoveAll(context.Background(), main.ID)
	require.NoError(t, err)
	assert.Len(t, result.Outcomes, 2)
	assert.False(t, result.Partial())
	assert.Empty(t, storedPortions(t, store, main.ID))
}

// faultyStore fails chosen writes so partial reconciliation can be
// observed.
type faultyStore struct {
	docstore.Store
	failCreates  bool
	failDeleteID string
}

var errBoom = errors.New("store unavailable")

func (f *faultyStore) Create(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	if f.failCreates {
		return "", errBoom
	}
	return f.Store.Create(ctx, collection, doc)
}

func (f *faultyStore) Delete(ctx context.Context, collection, id string) error {
	if id == f.failDeleteID {
		return errBoom
	}
	return f.Store.Delete(ctx, collection, id)
}

func TestReconcile_PartialFailureContinues(t *testing.T) {
	mem := docstore.NewMemory()
	faulty := &faultyStore{Store: mem}
	rec := NewReconciler(faulty, nil)

	main := seedMain(t, mem, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("60")},
		models.SplitShare{MemberUserID: "carol", Amount: dec("40")},
	))

	faulty.failCreates = true
	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Partial())
	assert.Len(t, result.Failed(), 2)
	for _, o := range result.Failed() {
		assert.ErrorIs(t, o.Err, errBoom)
	}

	// Writes recover on the next run
	faulty.failCreates = false
	result, err = rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	assert.False(t, result.Partial())
	assert.Len(t, storedPortions(t, mem, main.ID), 2)
}

func TestReconcile_FailedDeleteLeavesOthersAlone(t *testing.T) {
	mem := docstore.NewMemory()
	faulty := &faultyStore{Store: mem}
	rec := NewReconciler(faulty, nil)

	main := seedMain(t, mem, mainTransaction("",
		models.SplitShare{MemberUserID: "bob", Amount: dec("50")},
		models.SplitShare{MemberUserID: "carol", Amount: dec("50")},
	))
	_, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)

	portions := storedPortions(t, mem, main.ID)
	faulty.failDeleteID = portions["bob"].ID

	main.SplitInfo = nil
	result, err := rec.Reconcile(context.Background(), main)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Partial())
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, "bob", result.Failed()[0].MemberUserID)

	// Carol's portion is gone, bob's survived the failed delete
	left := storedPortions(t, mem, main.ID)
	require.Len(t, left, 1)
	assert.Contains(t, left, "bob")
}
