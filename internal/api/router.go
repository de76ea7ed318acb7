package api

import (
	"astrogation-service/internal/api/handlers"
	"astrogation-service/internal/ports"
	"astrogation-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(repo ports.RouteRepository, source ports.SystemDataSource) http.Handler {
	r := mux.NewRouter()

	sync := services.NewRouteSynchronizer(source)
	routeHandler := &handlers.RouteHandler{
		Repo: repo,
		Sync: sync,
		Nav:  services.NewNavigator(repo),
	}
	planHandler := &handlers.PlanHandler{Optimizer: sync.Optimizer}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/plans", planHandler.Plan).Methods(http.MethodPost)

	r.HandleFunc("/routes", routeHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/routes/{id}", routeHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/routes/{id}/start", routeHandler.SetStart).Methods(http.MethodPut)
	r.HandleFunc("/routes/{id}/waypoints", routeHandler.AddWaypoint).Methods(http.MethodPost)
	r.HandleFunc("/routes/{id}/waypoints/{position}", routeHandler.RemoveWaypoint).Methods(http.MethodDelete)
	r.HandleFunc("/routes/{id}/optimize", routeHandler.Optimize).Methods(http.MethodPost)
	r.HandleFunc("/routes/{id}/activate", routeHandler.Activate).Methods(http.MethodPost)
	r.HandleFunc("/routes/{id}/close", routeHandler.Close).Methods(http.MethodPost)
	r.HandleFunc("/routes/{id}/travel", routeHandler.Travel).Methods(http.MethodPost)

	r.Use(requestIDMiddleware, loggingMiddleware)
	return r
}
