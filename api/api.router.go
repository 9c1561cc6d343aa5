package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/apiary/api/middleware"
	"github.com/itsatony/w4b_v3/server/apiary/api/resources"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
)

// Options carries the optional collaborators of the router.
type Options struct {
	// SimulateLimiter throttles reading simulation when set.
	SimulateLimiter middleware.Limiter
	// Instrument wraps every route, e.g. with request metrics.
	Instrument mux.MiddlewareFunc
}

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
	opts      Options
}

func NewRouter(svc *hubservice.HubService, authenticator auth.Authenticator, opts Options) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(authenticator, svc),
		resources: resources.NewResources(svc),
		opts:      opts,
	}

	r.resources.SetHealthCheck(resources.Health(svc.Store.Ping))
	r.setupRoutes()
	return r
}

// Resources exposes the handlers so the server can swap in metrics.
func (r *Router) Resources() *resources.Resources {
	return r.resources
}

func (r *Router) setupRoutes() {
	if r.opts.Instrument != nil {
		r.router.Use(r.opts.Instrument)
	}

	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
		r.resources.Metrics(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", r.resources.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", r.resources.Auth.Login).Methods(http.MethodPost)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Hives
	hives := protected.PathPrefix("/hives").Subrouter()
	hives.HandleFunc("", r.resources.Hives.ListHives).Methods(http.MethodGet)
	hives.HandleFunc("", r.resources.Hives.CreateHive).Methods(http.MethodPost)
	hives.HandleFunc("/overview", r.resources.Hives.Overview).Methods(http.MethodGet)
	hives.HandleFunc("/{id}", r.resources.Hives.UpdateHive).Methods(http.MethodPut)
	hives.HandleFunc("/{id}", r.resources.Hives.DeleteHive).Methods(http.MethodDelete)

	// Sensors
	sensors := protected.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("", r.resources.Sensors.ListSensors).Methods(http.MethodGet)
	sensors.HandleFunc("", r.resources.Sensors.RegisterSensor).Methods(http.MethodPost)
	sensors.HandleFunc("/{id}", r.resources.Sensors.UpdateSensor).Methods(http.MethodPut)
	sensors.HandleFunc("/{id}", r.resources.Sensors.DeleteSensor).Methods(http.MethodDelete)
	sensors.HandleFunc("/{id}/readings", r.resources.Sensors.GetSensorReadings).Methods(http.MethodGet)

	// Readings and alerts
	var simulate http.Handler = http.HandlerFunc(r.resources.Readings.Simulate)
	if r.opts.SimulateLimiter != nil {
		simulate = middleware.RateLimit(r.opts.SimulateLimiter)(simulate)
	}
	protected.Handle("/readings/simulate", simulate).Methods(http.MethodPost)
	protected.HandleFunc("/readings/live", r.resources.Readings.Live).Methods(http.MethodGet)
	protected.HandleFunc("/alerts", r.resources.Readings.Alerts).Methods(http.MethodGet)

	// Reports and recommendations
	protected.HandleFunc("/officers", r.resources.Workflow.ListOfficers).Methods(http.MethodGet)
	reports := protected.PathPrefix("/reports").Subrouter()
	reports.HandleFunc("", r.resources.Workflow.SendReport).Methods(http.MethodPost)
	reports.HandleFunc("", r.resources.Workflow.ListSentReports).Methods(http.MethodGet)
	reports.HandleFunc("/sent", r.resources.Workflow.ListSentReports).Methods(http.MethodGet)
	reports.HandleFunc("/received", r.resources.Workflow.ListReceivedReports).Methods(http.MethodGet)
	reports.HandleFunc("/{id}", r.resources.Workflow.UpdateReport).Methods(http.MethodPut)
	reports.HandleFunc("/{id}", r.resources.Workflow.DeleteReport).Methods(http.MethodDelete)

	recs := protected.PathPrefix("/recommendations").Subrouter()
	recs.HandleFunc("", r.resources.Workflow.AddRecommendation).Methods(http.MethodPost)
	recs.HandleFunc("/sent", r.resources.Workflow.ListSentRecommendations).Methods(http.MethodGet)
	recs.HandleFunc("/received", r.resources.Workflow.ListReceivedRecommendations).Methods(http.MethodGet)
	recs.HandleFunc("/{id}", r.resources.Workflow.UpdateRecommendation).Methods(http.MethodPut)
	recs.HandleFunc("/{id}", r.resources.Workflow.DeleteRecommendation).Methods(http.MethodDelete)

	// Admin
	admin := protected.PathPrefix("/admin/accounts").Subrouter()
	admin.HandleFunc("", r.resources.Admin.ListAccounts).Methods(http.MethodGet)
	admin.HandleFunc("", r.resources.Admin.CreateAccount).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", r.resources.Admin.UpdateAccount).Methods(http.MethodPut)
	admin.HandleFunc("/{id}", r.resources.Admin.DeleteAccount).Methods(http.MethodDelete)
	admin.HandleFunc("/{id}/approve", r.resources.Admin.ApproveAccount).Methods(http.MethodPost)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
