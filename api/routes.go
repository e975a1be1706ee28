package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/scribe/internal/account"
	"github.com/garnizeh/scribe/internal/auth"
	"github.com/garnizeh/scribe/internal/config"
	"github.com/garnizeh/scribe/internal/content"
	"github.com/garnizeh/scribe/internal/db"
	"github.com/garnizeh/scribe/internal/repository/sqldb"
	"github.com/garnizeh/scribe/pkg/repository"
)

// Deps are the stores and collaborators the router is built from.
type Deps struct {
	Users     repository.UserRepo
	Wordpress repository.WordpressRepo
	Jobs      repository.ContentJobRepo
	// Webhook may be nil to disable job notifications.
	Webhook content.Dispatcher
	// DB, when set, is pinged by /health.
	DB Pinger
}

// SetupRoutes wires the SQL repositories over database into the router.
func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, dispatcher content.Dispatcher) (*mux.Router, error) {
	repo := sqldb.New(database, logger)

	return NewRouter(cfg, version, buildTime, Deps{
		Users:     repo,
		Wordpress: repo,
		Jobs:      repo,
		Webhook:   dispatcher,
		DB:        database.GetConn(),
	})
}

func NewRouter(cfg *config.Config, version, buildTime string, deps Deps) (*mux.Router, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenDuration, logger)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	gateway := auth.NewGateway(tokens, deps.Users, logger)

	accounts, err := account.NewService(deps.Users, deps.Wordpress, tokens, cfg.BcryptCost, logger)
	if err != nil {
		return nil, fmt.Errorf("account service: %w", err)
	}
	jobs := content.NewService(gateway, deps.Jobs, deps.Webhook, cfg.Webhook.Timeout, logger)

	errs := &ErrorWriter{ShowDetails: !cfg.IsProduction()}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, errorResponse{Error: "Not found"}, http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, errorResponse{Error: "Method not allowed"}, http.StatusMethodNotAllowed)
	})

	// Create handlers
	systemHandler := &SystemHandler{db: deps.DB}
	authHandler := NewAuthHandler(accounts, errs)
	userHandler := NewUserHandler(gateway, accounts, errs)
	contentHandler := NewContentHandler(jobs, errs)

	// Open endpoints. OPTIONS is matched on every route so CORSMiddleware can answer preflights.
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/user/register", authHandler.Register).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/user/login", authHandler.Login).Methods(http.MethodPost, http.MethodOptions)

	// Protected routes share one authentication path
	protected := r.NewRoute().Subrouter()
	protected.Use(RequireAuth(gateway))

	protected.HandleFunc("/user/me", userHandler.Me).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/user/wordpress", userHandler.SaveWordpress).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/content/create-job", contentHandler.CreateJob).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/content/my-jobs", contentHandler.MyJobs).Methods(http.MethodGet, http.MethodOptions)

	return r, nil
}
