package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/apiclient"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/catalog"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/session"
)

// respondWithError отправляет JSON ошибку
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, order.ErrTerminalStatus),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrNoUser),
		errors.Is(err, order.ErrAmbiguousOrder):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrTokenExpired),
		errors.Is(err, session.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, apiclient.ErrUnexpectedStatus):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
