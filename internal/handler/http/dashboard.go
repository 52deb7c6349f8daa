package http

import (
	"io/fs"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/catalog"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/session"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

const loginPath = "/"

type Options struct {
	Theme        Theme
	PollInterval time.Duration
}

// Dashboard serves every page of the admin panel.
type Dashboard struct {
	sessions *session.Manager
	products catalog.Service
	orders   order.Service
	users    user.Service

	theme        Theme
	pollInterval time.Duration
	views        *renderer
}

func NewDashboard(
	sessions *session.Manager,
	products catalog.Service,
	orders order.Service,
	users user.Service,
	opts Options,
) (*Dashboard, error) {
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		sessions:     sessions,
		products:     products,
		orders:       orders,
		users:        users,
		theme:        opts.Theme,
		pollInterval: opts.PollInterval,
		views:        views,
	}, nil
}

func (d *Dashboard) RegisterRoutes(router chi.Router) {
	static, _ := fs.Sub(staticFS, "static")
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.Get("/", d.handleLoginPage)
	router.Post("/login", d.handleLogin)
	router.Get("/healthz", d.handleHealth)

	router.Group(func(r chi.Router) {
		r.Use(d.sessions.Guard(loginPath))
		r.Use(upstreamToken)

		r.Get("/nav/{index}", d.handleNav)

		r.Get("/products", d.handleListProducts)
		r.Post("/products", d.handleCreateProduct)
		r.Post("/products/{id}", d.handleUpdateProduct)
		r.Get("/products/{id}/delete", d.handleConfirmDelete)
		r.Post("/products/{id}/delete", d.handleDeleteProduct)

		r.Get("/orders", d.handleOrders)
		r.Get("/orders/board", d.handleOrderBoard)
		r.Post("/orders/{key}/advance", d.handleAdvanceOrder)

		r.Get("/users", d.handleListUsers)

		r.Get("/settings", d.handleSettings)
		r.Post("/logout", d.handleLogout)
	})
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// page wraps data into the layout with the nav frame and the pending orders
// aside filled in.
func (d *Dashboard) page(title string, navIndex int, data any) page {
	return page{
		Title:   title,
		Theme:   d.theme,
		Nav:     navLinks(navIndex),
		Pending: pendingViews(d.orders.Pending()),
		Data:    data,
	}
}

func (d *Dashboard) refreshSeconds() int {
	secs := int(math.Ceil(d.pollInterval.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func pendingViews(carts []order.Cart) []pendingView {
	views := make([]pendingView, 0, len(carts))
	for _, c := range carts {
		v := pendingView{Username: capitalize(c.Username())}
		for _, it := range c.ItemsAt(order.StatusToShip) {
			v.Lines = append(v.Lines, pendingLine(it))
		}
		views = append(views, v)
	}
	return views
}
