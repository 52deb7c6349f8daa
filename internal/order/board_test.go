package order_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

func cart(id, userID, username string, items ...order.Item) order.Cart {
	c := order.Cart{ID: id, Items: items}
	if userID != "" {
		c.User = &user.User{ID: userID, Username: username}
	}
	return c
}

func item(id string, status order.Status) order.Item {
	return order.Item{ID: id, Quantity: 1, Status: status}
}

func keys(entries []order.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func TestGroup_CartInSeveralBuckets(t *testing.T) {
	carts := []order.Cart{
		cart("c1", "u1", "alice", item("1", order.StatusToShip), item("2", order.StatusDelivery)),
		cart("c2", "u2", "bob", item("3", order.StatusCompleted)),
	}

	buckets := order.Group(carts)
	require.Len(t, buckets, 3)

	assert.Equal(t, order.StatusToShip, buckets[0].Status)
	assert.Equal(t, []string{"c1"}, keys(buckets[0].Entries))
	assert.Equal(t, []string{"c1"}, keys(buckets[1].Entries))
	assert.Equal(t, []string{"c2"}, keys(buckets[2].Entries))

	// Each bucket shows only the items at its own status.
	require.Len(t, buckets[0].Entries[0].Items, 1)
	assert.Equal(t, "1", buckets[0].Entries[0].Items[0].ID)
	require.Len(t, buckets[1].Entries[0].Items, 1)
	assert.Equal(t, "2", buckets[1].Entries[0].Items[0].ID)
}

func TestGroup_EmptyBucketsStillPresent(t *testing.T) {
	buckets := order.Group(nil)
	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Empty(t, b.Entries)
	}
}

func TestFilter(t *testing.T) {
	carts := []order.Cart{
		cart("c1", "u1", "Alice"),
		cart("c2", "u2", "bob"),
		cart("c3", "", ""),
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns all", query: "", want: []string{"c1", "c2", "c3"}},
		{name: "case insensitive", query: "aLI", want: []string{"c1"}},
		{name: "orphan never matches", query: "b", want: []string{"c2"}},
		{name: "no match", query: "zoe", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := order.Filter(carts, tt.query)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPending(t *testing.T) {
	carts := []order.Cart{
		cart("c1", "u1", "alice", item("1", order.StatusDelivery)),
		cart("c2", "u2", "bob", item("2", order.StatusToShip), item("3", order.StatusCompleted)),
	}

	pending := order.Pending(carts)
	require.Len(t, pending, 1)
	assert.Equal(t, "c2", pending[0].ID)
}

func TestPlanAdvance(t *testing.T) {
	mixed := cart("c1", "alice-id", "alice",
		item("1", order.StatusToShip),
		item("2", order.StatusDelivery),
		item("3", order.StatusToShip),
		item("4", order.StatusCompleted),
	)

	tests := []struct {
		name       string
		cart       order.Cart
		from       order.Status
		wantTo     order.Status
		wantUpdate order.StatusUpdate
		wantErr    error
	}{
		{
			name:       "toship moves only toship items",
			cart:       mixed,
			from:       order.StatusToShip,
			wantTo:     order.StatusDelivery,
			wantUpdate: order.StatusUpdate{UserID: "alice-id", Items: []string{"1", "3"}},
		},
		{
			name:       "delivery moves only delivery items",
			cart:       mixed,
			from:       order.StatusDelivery,
			wantTo:     order.StatusCompleted,
			wantUpdate: order.StatusUpdate{UserID: "alice-id", Items: []string{"2"}},
		},
		{name: "completed is terminal", cart: mixed, from: order.StatusCompleted, wantErr: order.ErrTerminalStatus},
		{
			name:    "nothing at status",
			cart:    cart("c2", "u2", "bob", item("9", order.StatusCompleted)),
			from:    order.StatusToShip,
			wantErr: order.ErrNoItems,
		},
		{
			name:    "no user",
			cart:    cart("c3", "", "", item("9", order.StatusToShip)),
			from:    order.StatusToShip,
			wantErr: order.ErrNoUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, update, err := order.PlanAdvance(tt.cart, tt.from)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, to)
			if diff := cmp.Diff(tt.wantUpdate, update); diff != "" {
				t.Errorf("PlanAdvance() update mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStatus_Next(t *testing.T) {
	next, ok := order.StatusToShip.Next()
	assert.True(t, ok)
	assert.Equal(t, order.StatusDelivery, next)

	next, ok = order.StatusDelivery.Next()
	assert.True(t, ok)
	assert.Equal(t, order.StatusCompleted, next)

	_, ok = order.StatusCompleted.Next()
	assert.False(t, ok)

	_, ok = order.Status("cancelled").Next()
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("delivery")
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivery, s)

	_, err = order.ParseStatus("DELIVERY")
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}

func TestCart_Key(t *testing.T) {
	assert.Equal(t, "c1", cart("c1", "u1", "a").Key())
	assert.Equal(t, "user:u1", cart("", "u1", "a").Key())
	assert.Equal(t, "", cart("", "", "").Key())
}

func TestItem_ShowPaymentRef(t *testing.T) {
	assert.False(t, order.Item{PaymentMethod: order.CashOnDelivery, PaymentRef: "x"}.ShowPaymentRef())
	assert.True(t, order.Item{PaymentMethod: "GCash", PaymentRef: "ref-1"}.ShowPaymentRef())
	assert.False(t, order.Item{PaymentMethod: "GCash"}.ShowPaymentRef())
}
