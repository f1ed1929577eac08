package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/astrapos/astra-pos/internal/config"
	"github.com/astrapos/astra-pos/internal/modules/advisor"
	"github.com/astrapos/astra-pos/internal/modules/auth"
	"github.com/astrapos/astra-pos/internal/modules/catalog"
	"github.com/astrapos/astra-pos/internal/modules/reporting"
	"github.com/astrapos/astra-pos/internal/modules/sales"
	"github.com/astrapos/astra-pos/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	logger, err := buildLogger(cfg.Logger.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// ── Storage ─────────────────────────────────────────────
	// Postgres when DATABASE_URL is set, the in-memory ledger otherwise.
	var (
		catalogRepo catalog.Repository
		userRepo    user.Repository
		salesRepo   sales.Repository
	)
	if cfg.Server.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.Server.DatabaseURL)
		if err != nil {
			logger.Fatal("opening database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("pinging database", zap.Error(err))
		}
		logger.Info("connected to postgres")
		catalogRepo = catalog.NewPostgresRepository(db)
		userRepo = user.NewPostgresRepository(db)
		salesRepo = sales.NewPostgresRepository(db)
	} else {
		logger.Info("using in-memory storage")
		catalogRepo = catalog.NewMemoryRepository()
		userRepo = user.NewMemoryRepository()
		salesRepo = sales.NewMemoryRepository()
	}

	// ── Core services ───────────────────────────────────────
	ledger := catalog.NewLedger()

	userService := user.NewService(userRepo, logger)
	authService, err := auth.NewService(context.Background(), user.NewDirectoryAdapter(userService), cfg.Auth.JWTSecret, logger)
	if err != nil {
		logger.Fatal("initializing session authenticator", zap.Error(err))
	}
	catalogService := catalog.NewService(catalogRepo, ledger, logger)
	salesService := sales.NewService(salesRepo, catalogRepo, ledger, cfg.Sales.TaxRate, logger)
	reportingService := reporting.NewService(salesRepo, catalogRepo, ledger, logger)

	gateway := advisor.NewGeminiGateway(cfg.Gemini.APIKey, cfg.Gemini.Model, "")
	advisorService := advisor.NewService(gateway, catalogRepo, salesRepo, ledger, logger)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	auth.NewHandler(authService).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		user.NewHandler(userService).RegisterRoutes(r)
		sales.NewHandler(salesService).RegisterRoutes(r)
		reporting.NewHandler(reportingService).RegisterRoutes(r)
		advisor.NewHandler(advisorService).RegisterRoutes(r)
	})

	addr := ":" + cfg.Server.Port
	logger.Info("astra pos api listening", zap.String("addr", addr))
	log.Fatal(http.ListenAndServe(addr, router))
}

func buildLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
