package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter mounts the handler's routes and, when metrics is non-nil, a
// /metrics endpoint.
func NewRouter(handler *Handler, metrics http.Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}
	return cors.Default().Handler(r)
}
