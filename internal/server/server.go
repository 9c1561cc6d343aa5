// FilePath: server/apiary/internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/itsatony/w4b_v3/server/apiary/api"
	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/cleanup"
	"github.com/itsatony/w4b_v3/server/apiary/internal/config"
	"github.com/itsatony/w4b_v3/server/apiary/internal/database"
	"github.com/itsatony/w4b_v3/server/apiary/internal/events"
	"github.com/itsatony/w4b_v3/server/apiary/internal/hubservice"
	"github.com/itsatony/w4b_v3/server/apiary/internal/ingest"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/monitoring"
	"github.com/itsatony/w4b_v3/server/apiary/internal/ratelimit"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository/memory"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository/postgres"
	"github.com/itsatony/w4b_v3/server/apiary/internal/threshold"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const publishTimeout = 2 * time.Second

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	redis      *redis.Client
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	handler, err := s.Build(ctx)
	cancel()
	if err != nil {
		return err
	}
	s.srv.Handler = handler

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// Build wires storage, services and routes and returns the root handler.
func (s *Server) Build(ctx context.Context) (http.Handler, error) {
	store, err := s.initStore(ctx)
	if err != nil {
		return nil, err
	}

	s.monitoring = monitoring.NewService(monitoring.Config{
		MetricsEnabled: s.config.Monitoring.MetricsEnabled,
		MetricsPath:    s.config.Monitoring.MetricsPath,
	})

	if s.config.Redis.Enabled {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.config.Redis.Addr(),
			Password: s.config.Redis.Password,
			DB:       s.config.Redis.DB,
		})
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
	}

	guard := access.NewGuard(store).OnDeny(func(action access.Action, code string) {
		s.monitoring.RecordDenial(string(action), code)
	})

	pipeline := ingest.New(store, guard, ingest.Options{
		Thresholds: threshold.FromConfig(s.config.Ingest.Thresholds),
		Picker:     ingest.PickerFor(s.config.Ingest.SensorSelection),
		Source:     ingest.NewSimulatedSource(s.config.Ingest.Simulation),
	})

	authenticator, tokens := s.initAuth()
	s.hubservice = hubservice.New(
		store,
		guard,
		pipeline,
		auth.NewPasswordHasher(s.config.Auth.BcryptCost),
		tokens,
		hubservice.Limits{
			Alerts:   s.config.Listing.AlertsLimit,
			Readings: s.config.Listing.ReadingsLimit,
			Workflow: s.config.Listing.WorkflowLimit,
		},
	)
	if err := s.hubservice.Validate(); err != nil {
		return nil, err
	}

	s.setupIngestHandlers(pipeline)
	s.setupCleanupHandlers()

	opts := api.Options{Instrument: s.monitoring.Middleware}
	if s.config.RateLimit.Enabled {
		limiter, err := ratelimit.NewFixedWindowLimiter(
			s.redis,
			s.config.RateLimit.KeyPrefix,
			s.config.RateLimit.SimulateLimit,
			s.config.RateLimit.Window,
		)
		if err != nil {
			return nil, err
		}
		opts.SimulateLimiter = limiter
	}

	router := api.NewRouter(s.hubservice, authenticator, opts)
	if s.config.Monitoring.MetricsEnabled {
		router.Resources().SetMetrics(s.monitoring.Handler().ServeHTTP)
	}

	root := http.NewServeMux()
	if s.config.Monitoring.MetricsEnabled && s.config.Monitoring.MetricsPath != "" {
		root.Handle(s.config.Monitoring.MetricsPath, s.monitoring.Handler())
	}
	root.Handle("/", router)

	var handler http.Handler = root
	handler = handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	return handler, nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.Close()

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// Close releases the database and redis connections.
func (s *Server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing redis: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
	}
}

func (s *Server) initStore(ctx context.Context) (repository.Store, error) {
	if s.config.Database.Driver == "memory" {
		nuts.L.Warnf("[Server] Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}

	db, err := database.NewPostgresDB(s.config.Database)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	if s.config.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	s.db = db
	return postgres.NewStore(db), nil
}

func (s *Server) initAuth() (auth.Authenticator, auth.TokenIssuer) {
	if s.config.Auth.Mode == "keycloak" {
		kc := auth.NewKeycloakService(auth.KeycloakConfig{
			URL:          s.config.Auth.Keycloak.URL,
			Realm:        s.config.Auth.Keycloak.Realm,
			ClientID:     s.config.Auth.Keycloak.ClientID,
			ClientSecret: s.config.Auth.Keycloak.ClientSecret,
		})
		return kc, kc
	}
	jwt := auth.NewJWTService(s.config.Auth.JWT.Secret, s.config.Auth.JWT.Issuer, s.config.Auth.JWT.TTL)
	return jwt, jwt
}

func (s *Server) setupIngestHandlers(pipeline *ingest.Pipeline) {
	pipeline.OnReading("metrics", func(reading *models.Reading) {
		s.monitoring.RecordReading(string(reading.Status))
		s.monitoring.RecordEvent(ingest.EventReadingIngested, map[string]string{
			"hive_id": reading.HiveID,
		})
	})
	pipeline.OnAlert("metrics", func(alert *models.Alert) {
		s.monitoring.RecordAlert()
		s.monitoring.RecordEvent(ingest.EventAlertCreated, map[string]string{
			"hive_id": alert.HiveID,
		})
	})

	if s.redis != nil {
		publisher := events.NewRedisAlertPublisher(s.redis, s.config.Redis.AlertStream, s.config.Redis.StreamMaxLen)
		pipeline.OnAlert("redis-stream", events.Forwarder(publisher, publishTimeout))
	}
}

func (s *Server) setupCleanupHandlers() {
	// Handle hive deletion events
	s.hubservice.Cleanup.OnCleanup(cleanup.EventHiveDeleted, "metrics", func(id string) {
		nuts.L.Infof("[Cleanup] Hive %s and all associated data deleted", id)
		s.monitoring.RecordEvent("hive_deletion", map[string]string{
			"hive_id": id,
		})
	})

	// Handle sensor deletion events
	s.hubservice.Cleanup.OnCleanup(cleanup.EventSensorDeleted, "metrics", func(id string) {
		nuts.L.Infof("[Cleanup] Sensor %s and its readings deleted", id)
		s.monitoring.RecordEvent("sensor_deletion", map[string]string{
			"sensor_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup(cleanup.EventAlertsDeleted, "metrics", func(id string) {
		s.monitoring.RecordEvent("alerts_deletion", map[string]string{
			"hive_id": id,
		})
	})
}
