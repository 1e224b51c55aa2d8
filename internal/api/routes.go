package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the REST routes, the live feed endpoint and the
// operational endpoints onto one mux.
func NewRouter(handler *Handler, feed http.Handler) *mux.Router {
	router := mux.NewRouter()

	energyRoutes := router.PathPrefix("/api/energy").Subrouter()
	energyRoutes.HandleFunc("/dashboard", handler.Dashboard).Methods(http.MethodGet)
	energyRoutes.HandleFunc("/historical", handler.Historical).Methods(http.MethodGet)
	energyRoutes.HandleFunc("/readings", handler.Readings).Methods(http.MethodGet)
	energyRoutes.HandleFunc("/devices/{deviceId}/readings", handler.DeviceReadings).Methods(http.MethodGet)
	energyRoutes.HandleFunc("/realtime", handler.Realtime).Methods(http.MethodGet)
	energyRoutes.HandleFunc("/budget", handler.CurrentBudget).Methods(http.MethodGet)
	energyRoutes.HandleFunc("/budget", handler.CreateBudget).Methods(http.MethodPost)
	energyRoutes.HandleFunc("/export", handler.Export).Methods(http.MethodGet)

	router.Handle("/ws/energy", feed)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return router
}
