package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"atlas/internal/config"
	"atlas/internal/handler"
	"atlas/internal/middleware"
	"atlas/internal/repository/postgres"
	"atlas/internal/resource"
	"atlas/internal/security/authn"
	"atlas/internal/security/authz"
	"atlas/internal/security/rules"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier for bearer authentication
	verifier, err := authn.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Access-control repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	workspaceRepo := postgres.NewWorkspaceRepository(repoConfig)
	accessRepo := postgres.NewAccessRepository(repoConfig)

	// Workspace-admin rule store: built-in defaults merged with the
	// user-editable override file, reloaded on file change
	ruleStore, err := rules.NewStore(logger)
	if err != nil {
		log.Fatalf("Failed to create rule store: %v", err)
	}
	watcher := rules.NewWatcher(ruleStore, cfg.RulesFile, cfg.RulesReloadInterval, logger)
	if err := watcher.Start(ctx); err != nil {
		log.Fatalf("Failed to load access rules: %v", err)
	}

	// Authorization engine
	authorizer := authz.NewWorkspaceAdminAuthorizer(ruleStore, workspaceRepo, accessRepo, logger)

	restDefs, err := authz.NewRestDefinitionSource()
	if err != nil {
		log.Fatalf("Failed to load rest definitions: %v", err)
	}
	metadata := authz.NewCompositeSource(restDefs, authz.NewWorkspaceRuleSource(authorizer))
	engine := authz.NewDecisionEngine(metadata, authorizer, cfg.AllowIfAllAbstain)

	logger.Info("authorization engine initialized",
		"rules", len(authorizer.AccessRules()),
		"allow_if_all_abstain", cfg.AllowIfAllAbstain,
	)

	// Secured resource store
	fileStore, err := resource.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to create resource store: %v", err)
	}
	securer := resource.NewSecurer(fileStore, resource.NewAccessFilter(authorizer))

	// Handlers
	resourceHandler := handler.NewResourceHandler(securer, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Resource tree routes
	mux.HandleFunc("GET /rest/resource/{path...}", resourceHandler.Get)
	mux.HandleFunc("PUT /rest/resource/{path...}", resourceHandler.Put)
	mux.HandleFunc("DELETE /rest/resource/{path...}", resourceHandler.Delete)
	mux.HandleFunc("POST /rest/resource/{path...}", resourceHandler.Rename)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Authorize → Routes
	h = middleware.Authorize(engine, logger)(h)
	h = middleware.Auth(verifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID()(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
