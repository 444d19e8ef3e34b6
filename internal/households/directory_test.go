package households

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeledger/internal/models"
	"homeledger/internal/repositories/docstore"
)

func seedHousehold(t *testing.T, store docstore.Store, h models.Household) string {
	t.Helper()
	id, err := store.Create(context.Background(), models.CollectionHouseholds, h.Document())
	require.NoError(t, err)
	return id
}

func TestHousehold_CachesLookups(t *testing.T) {
	store := docstore.NewMemory()
	dir := NewDirectory(store)
	ctx := context.Background()

	id := seedHousehold(t, store, models.Household{
		Name:          "Maple Street",
		OwnerUserID:   "alice",
		MemberUserIDs: []string{"alice"},
	})

	h, err := dir.Household(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Maple Street", h.Name)

	// A direct store write is invisible until the cache is invalidated
	err = store.Update(ctx, models.CollectionHouseholds, id, docstore.Document{"name": "Oak Avenue"})
	require.NoError(t, err)

	h, err = dir.Household(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Maple Street", h.Name)

	dir.Invalidate(id)

	h, err = dir.Household(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Oak Avenue", h.Name)
}

func TestHousehold_Missing(t *testing.T) {
	dir := NewDirectory(docstore.NewMemory())

	_, err := dir.Household(context.Background(), "nope")
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMembersOf_OwnerFirst(t *testing.T) {
	store := docstore.NewMemory()
	dir := NewDirectory(store)

	id := seedHousehold(t, store, models.Household{
		Name:          "Maple Street",
		OwnerUserID:   "alice",
		MemberUserIDs: []string{"bob", "alice", "carol"},
	})

	members, err := dir.MembersOf(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, members)
}

func TestOwnerOf(t *testing.T) {
	store := docstore.NewMemory()
	dir := NewDirectory(store)

	id := seedHousehold(t, store, models.Household{
		Name:          "Maple Street",
		OwnerUserID:   "alice",
		MemberUserIDs: []string{"alice"},
	})

	owner, err := dir.OwnerOf(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestHouseholdsFor(t *testing.T) {
	store := docstore.NewMemory()
	dir := NewDirectory(store)
	ctx := context.Background()

	seedHousehold(t, store, models.Household{
		Name: "Maple Street", OwnerUserID: "alice", MemberUserIDs: []string{"alice", "bob"},
	})
	seedHousehold(t, store, models.Household{
		Name: "Lake House", OwnerUserID: "bob", MemberUserIDs: []string{"bob"},
	})
	seedHousehold(t, store, models.Household{
		Name: "Studio", OwnerUserID: "carol", MemberUserIDs: []string{"carol"},
	})

	mine, err := dir.HouseholdsFor(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	none, err := dir.HouseholdsFor(ctx, "mallory")
	require.NoError(t, err)
	assert.Empty(t, none)
}
