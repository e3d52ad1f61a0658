package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mwork/mwork-api/internal/config"
	"github.com/mwork/mwork-api/internal/domain/ratelimiter"
	"github.com/mwork/mwork-api/internal/domain/risk"
	"github.com/mwork/mwork-api/internal/domain/riskoverride"
	"github.com/mwork/mwork-api/internal/domain/token"
	"github.com/mwork/mwork-api/internal/middleware"
	"github.com/mwork/mwork-api/internal/pkg/database"
	"github.com/mwork/mwork-api/internal/pkg/jwt"
	applogger "github.com/mwork/mwork-api/internal/pkg/logger"
	"github.com/mwork/mwork-api/internal/pkg/metrics"
	pkgresponse "github.com/mwork/mwork-api/internal/pkg/response"
)

func main() {
	startTime := time.Now()
	cfg := config.Load()

	if err := applogger.Init(applogger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}

	log.Info().
		Str("event_type", "SYSTEM").
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("starting withdrawal token service")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer database.CloseRedis(redisClient)

	agentJWT := jwt.NewAgentService(cfg.AgentJWTSecret, cfg.AgentJWTTTL)

	// ---------- Domains ----------
	tokenRepo := token.NewRepository(db)
	tokenSvc := token.NewService(tokenRepo, cfg.TokenPepper)

	riskGatherer := risk.NewGatherer(tokenRepo)
	riskEngine := risk.NewEngine()
	riskSvc := risk.NewService(riskGatherer, riskEngine)

	tokenHandler := token.NewHandler(tokenSvc, tokenRepo, &meteredRiskGate{svc: riskSvc}, cfg.TokenTTL)

	overrideRepo := riskoverride.NewRepository(db)
	overrideSvc := riskoverride.NewService(tokenSvc, overrideRepo, cfg.RiskOverrideSecretHash)
	overrideHandler := riskoverride.NewHandler(overrideSvc)

	mintLimiter := ratelimiter.NewLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax)
	redeemLimiter := ratelimiter.NewLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax)
	mintRateLimit := ratelimiter.Middleware(mintLimiter, ratelimiter.Options{Route: "mint"})
	redeemRateLimit := ratelimiter.Middleware(redeemLimiter, ratelimiter.Options{Route: "redeem"})

	agentAuth := middleware.AgentAuth(agentJWT)

	// ---------- Router ----------
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Metrics)
	r.Use(agentAuth)

	r.Get("/health", healthHandler(startTime))

	r.Get("/ready", readyHandler(db, redisClient))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/tokens", func(r chi.Router) {
		r.With(mintRateLimit).Post("/", tokenHandler.Mint)
		r.With(redeemRateLimit).Post("/redeem", tokenHandler.Redeem)
	})

	r.Mount("/internal/risk/override", overrideHandler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("event_type", "SYSTEM").Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Str("event_type", "SYSTEM").Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Str("event_type", "SYSTEM").Msg("server exited cleanly")
}

// meteredRiskGate adapts risk.Service to token.RiskGate, recording the
// RiskDecisionsTotal counter at the call site the token handler drives it
// from.
type meteredRiskGate struct {
	svc *risk.Service
}

func (g *meteredRiskGate) Evaluate(ctx context.Context, accountID uuid.UUID, amount int64, metadata map[string]interface{}) (string, []string, error) {
	decision, reasons, err := g.svc.Evaluate(ctx, accountID, amount, metadata)
	if err != nil {
		return "", nil, err
	}
	metrics.RiskDecisionsTotal.WithLabelValues(decision).Inc()
	return decision, reasons, nil
}

// healthHandler reports liveness plus the current timestamp and the
// uptime, computed from startTime captured once at boot.
func healthHandler(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		pkgresponse.OK(w, map[string]interface{}{
			"status":    "ok",
			"timestamp": now,
			"uptime":    now.Sub(startTime).String(),
		})
	}
}

// readyHandler reports DB and Redis reachability as a readiness probe:
// both dependencies are already connected at boot, so
// this adds no new component, only a sequential ping of each.
func readyHandler(db *sqlx.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbOK := db.PingContext(ctx) == nil
		redisOK := redisClient.Ping(ctx).Err() == nil

		status := http.StatusOK
		if !dbOK || !redisOK {
			status = http.StatusServiceUnavailable
		}

		pkgresponse.JSON(w, status, map[string]bool{"db": dbOK, "redis": redisOK})
	}
}
