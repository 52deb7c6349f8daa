package http

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

type usersView struct {
	Query string
	Users []user.User
}

func (d *Dashboard) handleListUsers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	users, err := d.users.ListUsers(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users via service")
		users = []user.User{}
	}

	d.views.render(w, http.StatusOK, "users.html", d.page("Users", navUsers, usersView{Query: query, Users: users}))
}
