package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/BigLeagueAjay/Webscraper/config"
	"github.com/BigLeagueAjay/Webscraper/db"
	"github.com/BigLeagueAjay/Webscraper/embedding"
	"github.com/BigLeagueAjay/Webscraper/fetcher"
	"github.com/BigLeagueAjay/Webscraper/server"
	"github.com/BigLeagueAjay/Webscraper/storage"
	"github.com/BigLeagueAjay/Webscraper/utils"
)

func main() {
	logger := utils.NewLogger(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("no .env file loaded, relying on environment")
	}
	cfg := config.Load()

	ctx := context.Background()

	vectors, err := db.NewVectorStore(ctx, cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantAPIKey, cfg.EmbeddingDims, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Qdrant init failed")
	}
	defer vectors.Close()

	if err := vectors.EnsureCollections(ctx); err != nil {
		logger.Fatal().Err(err).Msg("collection provisioning failed")
	}

	history, err := db.OpenHistory(cfg.SQLitePath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("SQLite init failed")
	}
	defer history.GracefulShutdown(5 * time.Second)

	rawStore, err := storage.NewRawStore(cfg.RawDataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("raw store init failed")
	}

	manager := storage.NewManager(rawStore, vectors, history, logger)
	embedder := embedding.New(cfg.EmbedServiceURL, cfg.EmbedHealthURL, logger)
	pageFetcher := fetcher.New(fetcher.Options{
		Timeout:       cfg.FetchTimeout,
		RespectRobots: cfg.RespectRobots,
		SOCKS5Proxy:   cfg.SOCKS5Proxy,
	}, logger)

	handler := server.NewHandler(pageFetcher, embedder, manager, history, logger)
	router := server.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // saves embed synchronously
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("webscraper listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-shutdownChan
	logger.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
