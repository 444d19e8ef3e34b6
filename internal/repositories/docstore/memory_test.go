package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateAndGet(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Create(ctx, "things", Document{"name": "kettle", "watts": 2000})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc["id"])
	assert.Equal(t, "kettle", doc["name"])
}

func TestMemory_CreateIgnoresCallerID(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Create(ctx, "things", Document{"id": "my-own-id", "name": "kettle"})
	require.NoError(t, err)
	assert.NotEqual(t, "my-own-id", id)

	doc, err := store.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc["id"])
}

func TestMemory_GetMissing(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "things", "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateMergesAndDeletesFields(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Create(ctx, "things", Document{"name": "kettle", "color": "red", "watts": 2000})
	require.NoError(t, err)

	err = store.Update(ctx, "things", id, Document{"color": "blue", "watts": nil})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "blue", doc["color"])
	assert.Equal(t, "kettle", doc["name"])
	assert.NotContains(t, doc, "watts")
}

func TestMemory_UpdateCannotTouchID(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Create(ctx, "things", Document{"name": "kettle"})
	require.NoError(t, err)

	err = store.Update(ctx, "things", id, Document{"id": "hijacked"})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc["id"])
}

func TestMemory_UpdateMissing(t *testing.T) {
	store := NewMemory()

	err := store.Update(context.Background(), "things", "nope", Document{"name": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Create(ctx, "things", Document{"name": "kettle"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "things", id))
	require.NoError(t, store.Delete(ctx, "things", id))

	_, err = store.Get(ctx, "things", id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_QueryEqual(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Create(ctx, "txs", Document{"ownerUserId": "alice", "kind": "expense"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "txs", Document{"ownerUserId": "alice", "kind": "income"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "txs", Document{"ownerUserId": "bob", "kind": "expense"})
	require.NoError(t, err)

	docs, err := store.Query(ctx, "txs", Eq("ownerUserId", "alice"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Predicates combine with AND
	docs, err = store.Query(ctx, "txs", Eq("ownerUserId", "alice"), Eq("kind", "expense"))
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = store.Query(ctx, "txs", Eq("ownerUserId", "carol"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemory_QueryMissingFieldNeverMatches(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Create(ctx, "txs", Document{"ownerUserId": "alice"})
	require.NoError(t, err)

	docs, err := store.Query(ctx, "txs", Eq("householdId", ""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemory_QueryIn(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Create(ctx, "txs", Document{"categoryId": "cat-a"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "txs", Document{"categoryId": "cat-b"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "txs", Document{"categoryId": "cat-c"})
	require.NoError(t, err)

	docs, err := store.Query(ctx, "txs", In("categoryId", "cat-a", "cat-c"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.Query(ctx, "txs", In("categoryId"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemory_QueryContains(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Create(ctx, "households", Document{"memberUserIds": []interface{}{"alice", "bob"}})
	require.NoError(t, err)
	_, err = store.Create(ctx, "households", Document{"memberUserIds": []interface{}{"carol"}})
	require.NoError(t, err)

	docs, err := store.Query(ctx, "households", Contains("memberUserIds", "bob"))
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = store.Query(ctx, "households", Contains("memberUserIds", "mallory"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemory_QueryNumbersAcrossTypes(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	// Stored as int, queried as float, as after a JSON round trip
	_, err := store.Create(ctx, "txs", Document{"year": 2025})
	require.NoError(t, err)

	docs, err := store.Query(ctx, "txs", Eq("year", float64(2025)))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMemory_ResultsAreIsolatedCopies(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	original := Document{"name": "kettle", "tags": []interface{}{"kitchen"}}
	id, err := store.Create(ctx, "things", original)
	require.NoError(t, err)

	// Mutating the input after Create must not affect the stored doc
	original["name"] = "toaster"

	doc, err := store.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "kettle", doc["name"])

	// Mutating a returned doc must not affect later reads
	doc["name"] = "microwave"
	doc["tags"].([]interface{})[0] = "garage"

	again, err := store.Get(ctx, "things", id)
	require.NoError(t, err)
	assert.Equal(t, "kettle", again["name"])
	assert.Equal(t, "kitchen", again["tags"].([]interface{})[0])
}

func TestMemory_CancelledContext(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Query(ctx, "things")
	assert.Error(t, err)

	_, err = store.Create(ctx, "things", Document{"name": "kettle"})
	assert.Error(t, err)
}
