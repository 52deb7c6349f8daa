package order

import (
	"github.com/vasiliy-maslov/ecommerce-admin/internal/catalog"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

type Status string

const (
	StatusToShip    Status = "toship"
	StatusDelivery  Status = "delivery"
	StatusCompleted Status = "completed"
)

// Statuses lists the pipeline in order.
var Statuses = []Status{StatusToShip, StatusDelivery, StatusCompleted}

// allowedTransitions allows exactly one forward step; completed is terminal.
var allowedTransitions = map[Status]Status{
	StatusToShip:   StatusDelivery,
	StatusDelivery: StatusCompleted,
}

func (s Status) String() string {
	return string(s)
}

// Next returns the status an item moves to when advanced.
func (s Status) Next() (Status, bool) {
	next, ok := allowedTransitions[s]
	return next, ok
}

func (s Status) Label() string {
	switch s {
	case StatusToShip:
		return "TO SHIP"
	case StatusDelivery:
		return "IN TRANSIT"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return string(s)
	}
}

// ParseStatus accepts only the three pipeline statuses.
func ParseStatus(raw string) (Status, error) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", ErrUnknownStatus
}

const CashOnDelivery = "Cash on Delivery"

type Item struct {
	ID            string          `json:"_id"`
	Product       catalog.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	Status        Status          `json:"status"`
	PaymentMethod string          `json:"mop"`
	PaymentRef    string          `json:"paymentRef"`
}

// ShowPaymentRef reports whether the payment reference is worth displaying.
func (i Item) ShowPaymentRef() bool {
	return i.PaymentMethod != CashOnDelivery && i.PaymentRef != ""
}

// Cart is one customer's order: the purchased items with their own statuses.
type Cart struct {
	ID    string     `json:"_id,omitempty"`
	User  *user.User `json:"user"`
	Items []Item     `json:"items"`
}

// Key identifies a cart in the cache. Carts without an id of their own are
// keyed by their user.
func (c Cart) Key() string {
	if c.ID != "" {
		return c.ID
	}
	if c.User != nil {
		return "user:" + c.User.ID
	}
	return ""
}

// Username returns the owner's username or "" for orphaned carts.
func (c Cart) Username() string {
	if c.User == nil {
		return ""
	}
	return c.User.Username
}

// HasStatus reports whether any item is currently at s.
func (c Cart) HasStatus(s Status) bool {
	for _, it := range c.Items {
		if it.Status == s {
			return true
		}
	}
	return false
}

// ItemsAt returns the items currently at s, in cart order.
func (c Cart) ItemsAt(s Status) []Item {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Status == s {
			items = append(items, it)
		}
	}
	return items
}

// StatusUpdate is the batched body the API expects when moving items on.
type StatusUpdate struct {
	UserID string   `json:"userId"`
	Items  []string `json:"items"`
}
