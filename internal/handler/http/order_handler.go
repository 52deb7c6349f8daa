package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

type entryView struct {
	Key      string
	Username string
	Address  string
	Contact  string
	Items    []order.Item
}

type bucketView struct {
	Status    order.Status
	Label     string
	NextLabel string
	Entries   []entryView
}

type ordersView struct {
	Query       string
	Buckets     []bucketView
	RefreshedAt time.Time
}

type EntryResponse struct {
	Key   string       `json:"key"`
	User  *user.User   `json:"user"`
	Items []order.Item `json:"items"`
}

type BucketResponse struct {
	Status order.Status    `json:"status"`
	Label  string          `json:"label"`
	Next   order.Status    `json:"next,omitempty"`
	Orders []EntryResponse `json:"orders"`
}

type BoardResponse struct {
	Query       string           `json:"query"`
	Version     uint64           `json:"version"`
	RefreshedAt time.Time        `json:"refreshed_at"`
	Buckets     []BucketResponse `json:"buckets"`
}

func (d *Dashboard) handleOrders(w http.ResponseWriter, r *http.Request) {
	d.renderOrders(w, r, http.StatusOK, strings.TrimSpace(r.URL.Query().Get("q")))
}

func (d *Dashboard) renderOrders(w http.ResponseWriter, r *http.Request, status int, query string) {
	board := d.orders.Board(query)

	view := ordersView{
		Query:       board.Query,
		Buckets:     make([]bucketView, 0, len(board.Buckets)),
		RefreshedAt: board.RefreshedAt,
	}
	for _, b := range board.Buckets {
		bv := bucketView{Status: b.Status, Label: b.Status.Label()}
		if next, ok := b.Next(); ok {
			bv.NextLabel = next.Label()
		}
		for _, e := range b.Entries {
			ev := entryView{Key: e.Key, Items: e.Items}
			if e.Cart.User != nil {
				ev.Username = e.Cart.User.Username
				ev.Address = e.Cart.User.Address
				ev.Contact = e.Cart.User.Contact
			}
			bv.Entries = append(bv.Entries, ev)
		}
		view.Buckets = append(view.Buckets, bv)
	}

	p := d.page("Orders", navOrders, view)
	// The page may be the answer to a failed POST; reloading must land on the
	// board, not on the action URL.
	p.RefreshSeconds = d.refreshSeconds()
	p.RefreshURL = ordersURL(query)
	d.views.render(w, status, "orders.html", p)
}

func (d *Dashboard) handleOrderBoard(w http.ResponseWriter, r *http.Request) {
	board := d.orders.Board(strings.TrimSpace(r.URL.Query().Get("q")))

	response := BoardResponse{
		Query:       board.Query,
		Version:     board.Version,
		RefreshedAt: board.RefreshedAt,
		Buckets:     make([]BucketResponse, 0, len(board.Buckets)),
	}
	for _, b := range board.Buckets {
		br := BucketResponse{Status: b.Status, Label: b.Status.Label(), Orders: make([]EntryResponse, 0, len(b.Entries))}
		if next, ok := b.Next(); ok {
			br.Next = next
		}
		for _, e := range b.Entries {
			br.Orders = append(br.Orders, EntryResponse{Key: e.Key, User: e.Cart.User, Items: e.Items})
		}
		response.Buckets = append(response.Buckets, br)
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (d *Dashboard) handleAdvanceOrder(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse order key from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid order key")
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("Failed to parse advance form")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	query := strings.TrimSpace(r.PostFormValue("q"))

	from, err := order.ParseStatus(r.PostFormValue("status"))
	if err != nil {
		log.Warn().Err(err).Str("order_key", key).Str("status", r.PostFormValue("status")).Msg("Rejected advance with unknown status")
		d.renderOrders(w, r, mapErrorToStatusCode(err), query)
		return
	}

	if err := d.orders.Advance(r.Context(), key, from); err != nil {
		log.Error().Err(err).Str("order_key", key).Str("from", from.String()).Msg("Failed to advance order via service")
		d.renderOrders(w, r, mapErrorToStatusCode(err), query)
		return
	}

	http.Redirect(w, r, ordersURL(query), http.StatusSeeOther)
}

func ordersURL(query string) string {
	if query == "" {
		return "/orders"
	}
	return "/orders?q=" + url.QueryEscape(query)
}
