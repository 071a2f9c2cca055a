package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hrserver/internal/adapter/repo"
	"hrserver/internal/banner"
	"hrserver/internal/http/handlers"
	httpapi "hrserver/internal/http"
	"hrserver/internal/identity"
	"hrserver/internal/infra"
	"hrserver/internal/infra/geoip"
	"hrserver/internal/jobs"
	"hrserver/internal/middleware"
	"hrserver/internal/notify"
	"hrserver/internal/screening"
	"hrserver/internal/store"
	"hrserver/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Supabase row store.
	client, err := store.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create supabase client")
	}
	jobStore := store.NewJobStore(client)
	screeningStore := store.NewScreeningStore(client)
	employeeStore := store.NewEmployeeStore(client)
	attendanceStore := store.NewAttendanceStore(client)
	payrollStore := store.NewPayrollStore(client)
	interviewStore := store.NewInterviewStore(client)
	settingsStore := store.NewSettingsStore(client)
	profileStore := store.NewProfileStore(client)

	// Identity provider with best-effort profile sync.
	ident := identity.New(cfg.SupabaseRef, cfg.SupabaseAnonKey, cfg.AuthURL(), profileStore, &logger)

	// Automation webhook client.
	hook, err := webhook.NewClient(webhook.Options{
		Endpoint: cfg.WebhookURL,
		Timeout:  cfg.WebhookTimeout,
		Logger:   &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create webhook client")
	}

	feed := notify.NewFeed(100, &logger)
	banners := banner.NewResolver(http.DefaultClient)

	jobsRegistry := jobs.NewRegistry(jobStore, hook, banners, feed, &logger)
	screeningSvc := screening.NewService(screeningStore, hook, feed, &logger)

	// Optional analytics over a direct Postgres connection.
	var analytics *repo.AnalyticsRepository
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		analytics = repo.NewAnalyticsRepository(pool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set; analytics endpoints disabled")
	}

	// Optional GeoIP database for attendance origin country.
	var country middleware.CountryLookup
	locator, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable")
	} else if locator != nil {
		defer locator.Close()
		country = locator.Country
	}

	app := &handlers.App{
		Identity:   ident,
		Jobs:       jobsRegistry,
		Screening:  screeningSvc,
		Employees:  employeeStore,
		Attendance: attendanceStore,
		Payroll:    payrollStore,
		Interviews: interviewStore,
		Settings:   settingsStore,
		Analytics:  analytics,
		Feed:       feed,
		Logger:     logger,
	}

	router := httpapi.NewRouter(cfg, app, country)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}

	// Let in-flight profile syncs drain before exit.
	ident.Flush()
	logger.Info().Msg("server stopped")
}
