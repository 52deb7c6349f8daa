package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/session"
)

type navItem struct {
	Label string
	Path  string
}

var navItems = []navItem{
	{Label: "Products", Path: "/products"},
	{Label: "Orders", Path: "/orders"},
	{Label: "Users", Path: "/users"},
	{Label: "Settings", Path: "/settings"},
}

const (
	navProducts = iota
	navOrders
	navUsers
	navSettings
)

// navIndex falls back to the first item for anything out of range.
func navIndex(raw string) int {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= len(navItems) {
		return navProducts
	}
	return idx
}

func navPath(idx int) string {
	if idx < 0 || idx >= len(navItems) {
		return navItems[navProducts].Path
	}
	return navItems[idx].Path
}

func navLinks(active int) []navLink {
	links := make([]navLink, 0, len(navItems))
	for i, item := range navItems {
		links = append(links, navLink{Index: i, Label: item.Label, Path: item.Path, Active: i == active})
	}
	return links
}

func pendingLine(it order.Item) string {
	return fmt.Sprintf("×%d %s", it.Quantity, it.Product.Name)
}

func (d *Dashboard) handleNav(w http.ResponseWriter, r *http.Request) {
	idx := navIndex(chi.URLParam(r, "index"))

	s := session.FromContext(r.Context())
	if err := d.sessions.SetNavIndex(r.Context(), s, idx); err != nil {
		log.Error().Err(err).Int("nav_index", idx).Msg("Failed to store nav index")
	}

	http.Redirect(w, r, navItems[idx].Path, http.StatusSeeOther)
}
