package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HridhimaDabhade/tpem-project/internal/auth"
	"github.com/HridhimaDabhade/tpem-project/internal/config"
	"github.com/HridhimaDabhade/tpem-project/internal/database"
	"github.com/HridhimaDabhade/tpem-project/internal/handlers"
	"github.com/HridhimaDabhade/tpem-project/internal/ratelimit"
	"github.com/HridhimaDabhade/tpem-project/internal/services"
	"github.com/HridhimaDabhade/tpem-project/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := newLogger(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	now := time.Now
	tokens := auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTExpire)
	audit := services.NewAuditRecorder(st, log, now)
	eligibility := services.NewEligibilityService(st, audit, log, now)
	candidates := services.NewCandidateService(services.CandidateServiceDeps{
		Candidates:  st,
		Allocator:   services.NewIDAllocator(st, cfg.CandidateIDPrefix, now),
		Eligibility: eligibility,
		Audit:       audit,
		Notifier:    newNotifier(ctx, cfg, log),
		Log:         log,
		Now:         now,
		MaxAttempts: cfg.CandidateIDMaxAttempts,
	})
	interviews := services.NewInterviewService(st, audit, log, now)
	reInterviews := services.NewReInterviewService(st, audit, log, now)
	users := services.NewUserService(st, tokens, audit, log, now)
	summaries := services.NewSummaryService(newSummaryModel(ctx, cfg, log), st)
	reports := services.NewReportService(st)
	qr := services.NewQRService(cfg.FrontendURL)

	var forms services.FormsSource
	if cfg.FormsSyncEnabled() {
		client := services.NewGraphHTTPClient(ctx, cfg.MSFormsTenantID, cfg.MSFormsClientID, cfg.MSFormsClientSecret)
		forms = services.NewGraphFormsClient(client, cfg.MSGraphBaseURL, cfg.MSFormsFormID)
	} else {
		log.Info("forms sync disabled (MS_FORMS_* not set)")
	}
	formsSync := services.NewFormsSyncService(forms, candidates, audit, log)

	if err := users.SeedAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		log.Error("seed admin", slog.String("error", err.Error()))
		os.Exit(1)
	}
	services.NewSweeper(eligibility, cfg.EligibilitySweepEvery, log).Start(ctx)

	router := handlers.NewRouter(handlers.RouterDeps{
		Candidates:     handlers.NewCandidateHandler(candidates, interviews, eligibility, summaries, log),
		Interviews:     handlers.NewInterviewHandler(interviews, reInterviews, log),
		Reports:        handlers.NewReportHandler(reports, log),
		Users:          handlers.NewUserHandler(users, log),
		QR:             handlers.NewQRHandler(qr, log),
		Sync:           handlers.NewSyncHandler(formsSync, log),
		Tokens:         tokens,
		Limiter:        newLimiter(ctx, cfg, log),
		OnboardLimit:   cfg.PublicOnboardRateLimit,
		OnboardWindow:  cfg.PublicOnboardRateWindow,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("api started", slog.String("port", cfg.HTTPPort), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.String("error", err.Error()))
	}
	log.Info("api stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func openStore(cfg *config.Config, log *slog.Logger) (store.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return store.NewGormStore(db), closeFn, nil
}

func newNotifier(ctx context.Context, cfg *config.Config, log *slog.Logger) services.Notifier {
	if cfg.GmailCredentialsFile == "" {
		log.Info("onboarding emails disabled (GMAIL_CREDENTIALS_FILE not set)")
		return nil
	}
	client, err := auth.GmailClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
	if err != nil {
		log.Warn("onboarding emails disabled", slog.String("error", err.Error()))
		return nil
	}
	n, err := services.NewGmailNotifier(ctx, "", log, option.WithHTTPClient(client))
	if err != nil {
		log.Warn("onboarding emails disabled", slog.String("error", err.Error()))
		return nil
	}
	log.Info("gmail notifier connected")
	return n
}

func newSummaryModel(ctx context.Context, cfg *config.Config, log *slog.Logger) llms.Model {
	if cfg.GeminiAPIKey == "" {
		log.Info("candidate summaries disabled (GEMINI_API_KEY not set)")
		return nil
	}
	model, err := services.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Warn("candidate summaries disabled", slog.String("error", err.Error()))
		return nil
	}
	return model
}

func newLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) ratelimit.Limiter {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemoryLimiter()
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, rate limiting per process", slog.String("error", err.Error()))
		return ratelimit.NewMemoryLimiter()
	}
	return ratelimit.NewRedisLimiter(client, log)
}
