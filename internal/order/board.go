package order

import (
	"strings"
	"time"
)

// Entry is one cart as it appears inside a single bucket: only the items at
// the bucket's status are listed.
type Entry struct {
	Key   string
	Cart  Cart
	Items []Item
}

type Bucket struct {
	Status  Status
	Entries []Entry
}

// Next is the status the bucket's advance action moves items to.
func (b Bucket) Next() (Status, bool) {
	return b.Status.Next()
}

// Board is the grouped view the orders page renders. Version and
// RefreshedAt describe the cache state it was built from.
type Board struct {
	Query       string
	Buckets     []Bucket
	Version     uint64
	RefreshedAt time.Time
}

// Filter keeps carts whose user's username contains query, ignoring case.
// Carts without a user only survive an empty query.
func Filter(carts []Cart, query string) []Cart {
	result := make([]Cart, 0, len(carts))
	needle := strings.ToLower(query)
	for _, c := range carts {
		if needle == "" {
			result = append(result, c)
			continue
		}
		if c.User != nil && strings.Contains(strings.ToLower(c.User.Username), needle) {
			result = append(result, c)
		}
	}
	return result
}

// Group partitions carts into one bucket per status. A cart lands in every
// bucket for which it holds at least one item, so a cart split across stages
// shows up more than once.
func Group(carts []Cart) []Bucket {
	buckets := make([]Bucket, 0, len(Statuses))
	for _, s := range Statuses {
		bucket := Bucket{Status: s}
		for _, c := range carts {
			items := c.ItemsAt(s)
			if len(items) == 0 {
				continue
			}
			bucket.Entries = append(bucket.Entries, Entry{Key: c.Key(), Cart: c, Items: items})
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// BuildBoard filters and then groups.
func BuildBoard(carts []Cart, query string) Board {
	return Board{Query: query, Buckets: Group(Filter(carts, query))}
}

// Pending returns carts that still have something to ship.
func Pending(carts []Cart) []Cart {
	result := make([]Cart, 0)
	for _, c := range carts {
		if c.HasStatus(StatusToShip) {
			result = append(result, c)
		}
	}
	return result
}

// PlanAdvance works out the request that moves every item of cart currently
// at from to the next status. Items at other statuses are left out.
func PlanAdvance(cart Cart, from Status) (Status, StatusUpdate, error) {
	to, ok := from.Next()
	if !ok {
		return "", StatusUpdate{}, ErrTerminalStatus
	}
	if cart.User == nil || cart.User.ID == "" {
		return "", StatusUpdate{}, ErrNoUser
	}

	items := cart.ItemsAt(from)
	if len(items) == 0 {
		return "", StatusUpdate{}, ErrNoItems
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	return to, StatusUpdate{UserID: cart.User.ID, Items: ids}, nil
}
