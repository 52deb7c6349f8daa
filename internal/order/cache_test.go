package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
)

func TestCache_ApplyDiffs(t *testing.T) {
	cache := order.NewCache()

	change := cache.Apply([]order.Cart{
		cart("c1", "u1", "alice", item("1", order.StatusToShip)),
		cart("c2", "u2", "bob", item("2", order.StatusToShip)),
	})
	assert.Equal(t, []string{"c1", "c2"}, change.Added)
	assert.Empty(t, change.Updated)
	assert.Empty(t, change.Removed)
	assert.Equal(t, uint64(1), cache.Version())

	change = cache.Apply([]order.Cart{
		cart("c1", "u1", "alice", item("1", order.StatusDelivery)),
		cart("c3", "u3", "carol", item("3", order.StatusToShip)),
	})
	assert.Equal(t, []string{"c3"}, change.Added)
	assert.Equal(t, []string{"c1"}, change.Updated)
	assert.Equal(t, []string{"c2"}, change.Removed)
	assert.Equal(t, uint64(2), cache.Version())

	got, ok := cache.Get("c1")
	require.True(t, ok)
	assert.Equal(t, order.StatusDelivery, got.Items[0].Status)

	_, ok = cache.Get("c2")
	assert.False(t, ok)
}

func TestCache_ApplyUnchangedKeepsVersion(t *testing.T) {
	cache := order.NewCache()
	carts := []order.Cart{cart("c1", "u1", "alice", item("1", order.StatusToShip))}

	cache.Apply(carts)
	change := cache.Apply([]order.Cart{cart("c1", "u1", "alice", item("1", order.StatusToShip))})

	assert.True(t, change.Empty())
	assert.Equal(t, uint64(1), cache.Version())
	assert.False(t, cache.RefreshedAt().IsZero())
}

func TestCache_SnapshotKeepsFetchOrder(t *testing.T) {
	cache := order.NewCache()
	cache.Apply([]order.Cart{
		cart("b", "u2", "bob"),
		cart("a", "u1", "alice"),
		cart("", "u3", "carol"),
	})

	snapshot := cache.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "b", snapshot[0].ID)
	assert.Equal(t, "a", snapshot[1].ID)
	assert.Equal(t, "carol", snapshot[2].Username())

	_, ok := cache.Get("user:u3")
	assert.True(t, ok)
}

func TestCache_OrphanCartsGetPositionalKeys(t *testing.T) {
	cache := order.NewCache()
	change := cache.Apply([]order.Cart{cart("", "", ""), cart("", "", "")})
	assert.Equal(t, []string{"#0", "#1"}, change.Added)
	assert.Len(t, cache.Snapshot(), 2)
}

func TestCache_ResolveRefusesPositionalKeys(t *testing.T) {
	cache := order.NewCache()
	cache.Apply([]order.Cart{
		cart("", "u1", "alice", item("1", order.StatusToShip)),
		cart("", "u1", "alice", item("2", order.StatusToShip)),
		cart("", "", "", item("3", order.StatusToShip)),
		cart("c4", "u2", "bob", item("4", order.StatusToShip)),
	})

	for _, key := range []string{"user:u1", "user:u1#1", "#2"} {
		_, err := cache.Resolve(key)
		assert.ErrorIs(t, err, order.ErrAmbiguousOrder, key)

		_, ok := cache.Get(key)
		assert.True(t, ok, "%s is still shown on the board", key)
	}

	got, err := cache.Resolve("c4")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username())

	_, err = cache.Resolve("missing")
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestCache_ResolveAcceptsKeyOnceUnique(t *testing.T) {
	cache := order.NewCache()
	cache.Apply([]order.Cart{
		cart("", "u1", "alice", item("1", order.StatusToShip)),
		cart("", "u1", "alice", item("2", order.StatusToShip)),
	})
	cache.Apply([]order.Cart{cart("", "u1", "alice", item("1", order.StatusToShip))})

	_, err := cache.Resolve("user:u1")
	assert.NoError(t, err)
}
