package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeledger/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func filterSet() []models.Transaction {
	return []models.Transaction{
		{ID: "t1", Description: "Rent June", Date: day(1), Kind: models.KindExpense, CategoryID: "cat-housing"},
		{ID: "t2", Description: "salary", Date: day(5), Kind: models.KindIncome, CategoryID: "cat-salary"},
		{ID: "t3", Description: "groceries at corner shop", Date: day(10), Kind: models.KindExpense, CategoryID: "cat-groceries", HouseholdID: "hh-1"},
		{ID: "t4", Description: "cinema", Date: day(20), Kind: models.KindExpense, CategoryID: "cat-fun", HouseholdID: "hh-2"},
	}
}

func ids(txs []models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestFilter_Empty(t *testing.T) {
	got := Filter(filterSet(), Options{})
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids(got))
}

func TestFilter_DateBoundsInclusive(t *testing.T) {
	got := Filter(filterSet(), Options{From: day(5), To: day(10)})
	assert.Equal(t, []string{"t2", "t3"}, ids(got))

	// The boundary transaction itself passes
	got = Filter(filterSet(), Options{From: day(20)})
	assert.Equal(t, []string{"t4"}, ids(got))
}

func TestFilter_Kind(t *testing.T) {
	got := Filter(filterSet(), Options{Kind: models.KindIncome})
	assert.Equal(t, []string{"t2"}, ids(got))
}

func TestFilter_HouseholdPointer(t *testing.T) {
	// nil pointer: household is not considered at all
	got := Filter(filterSet(), Options{})
	require.Len(t, got, 4)

	// pointer to a household id: only that household
	hh := "hh-1"
	got = Filter(filterSet(), Options{HouseholdID: &hh})
	assert.Equal(t, []string{"t3"}, ids(got))

	// pointer to the empty string: personal entries only
	personal := ""
	got = Filter(filterSet(), Options{HouseholdID: &personal})
	assert.Equal(t, []string{"t1", "t2"}, ids(got))
}

func TestFilter_Categories(t *testing.T) {
	got := Filter(filterSet(), Options{CategoryIDs: []string{"cat-housing", "cat-fun"}})
	assert.Equal(t, []string{"t1", "t4"}, ids(got))
}

func TestFilter_SearchTextCaseInsensitive(t *testing.T) {
	got := Filter(filterSet(), Options{SearchText: "RENT"})
	assert.Equal(t, []string{"t1"}, ids(got))

	got = Filter(filterSet(), Options{SearchText: "  corner  "})
	assert.Equal(t, []string{"t3"}, ids(got))

	got = Filter(filterSet(), Options{SearchText: "yacht"})
	assert.Empty(t, got)
}

func TestFilter_PredicatesCombineWithAnd(t *testing.T) {
	hh := "hh-1"
	got := Filter(filterSet(), Options{
		From:        day(1),
		To:          day(30),
		Kind:        models.KindExpense,
		HouseholdID: &hh,
		CategoryIDs: []string{"cat-groceries"},
		SearchText:  "groceries",
	})
	assert.Equal(t, []string{"t3"}, ids(got))

	// One failing predicate rejects the transaction
	got = Filter(filterSet(), Options{
		Kind:        models.KindExpense,
		HouseholdID: &hh,
		SearchText:  "cinema",
	})
	assert.Empty(t, got)
}
