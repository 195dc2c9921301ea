package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wecare-app/apiserver/config"
	"github.com/wecare-app/apiserver/internal/db"
	"github.com/wecare-app/apiserver/internal/events"
	"github.com/wecare-app/apiserver/internal/handlers"
	"github.com/wecare-app/apiserver/internal/mq"
	"github.com/wecare-app/apiserver/internal/reporter"
	"github.com/wecare-app/apiserver/internal/services"
	"github.com/wecare-app/apiserver/internal/storage"
	"github.com/wecare-app/apiserver/internal/store"
)

// Server wraps the HTTP server, router, and shared connections.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with the full route surface wired to the
// long-lived database pool and the optional storage/broker backends.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	reporter.Init(cfg.SentryDSN, cfg.Env)

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	photoStorage, err := newStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := newBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	var publisher *events.Publisher
	if broker != nil {
		publisher = events.NewPublisher(broker)
	}

	userRepo := store.NewUserRepository(dbConn)
	supplyRepo := store.NewSupplyRepository(dbConn)
	communityRepo := store.NewCommunityRepository(dbConn)

	userService := services.NewUserService(userRepo, cfg.ProtectedEmails)
	supplyService := services.NewSupplyService(supplyRepo, photoStorage, publisher)
	communityService := services.NewCommunityService(communityRepo, publisher)

	authHandler := handlers.NewAuthHandler(userService, cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.IsProduction())

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Get("/", handlers.Welcome)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/v1", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
		handlers.SupplyRouter(r, supplyService)
		handlers.CommunityRouter(r, communityService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 5000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown closes the server and its shared connections.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	reporter.Flush(2 * time.Second)
	return s.httpServer.Close()
}

func newStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	var backend storage.ObjectStorage
	switch cfg.Storage.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	wrapped := storage.NewStorage(backend)
	if err := wrapped.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return wrapped, nil
}

func newBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}
