package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/auguria/backend/internal/http/handlers"
	"github.com/auguria/backend/internal/http/httpapi"
	"github.com/auguria/backend/internal/infra"
	"github.com/auguria/backend/internal/infra/geoip"
	"github.com/auguria/backend/internal/middleware"
	"github.com/auguria/backend/internal/notify"
	"github.com/auguria/backend/internal/realtime"
	"github.com/auguria/backend/pkg/telegram"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	// Optional GeoIP country lookups for announcements.
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	announcer := notify.NewAnnouncer(telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TelegramAPIBase))

	hub := realtime.NewHub(logger, cfg.CORSOrigins)
	go hub.Run(ctx)

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	app := handlers.NewApp(sqlRunner, logger, announcer, hub)

	router := httpapi.NewRouter(app, hub, cfg, logger, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
