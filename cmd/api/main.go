package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/scottrhay/AIAMusic/internal/adapter/repo"
	"github.com/scottrhay/AIAMusic/internal/domain"
	"github.com/scottrhay/AIAMusic/internal/http/handlers"
	httpapi "github.com/scottrhay/AIAMusic/internal/http/httpapi"
	"github.com/scottrhay/AIAMusic/internal/infra"
	"github.com/scottrhay/AIAMusic/internal/musicgen"
	"github.com/scottrhay/AIAMusic/internal/providers/speech"
	"github.com/scottrhay/AIAMusic/internal/providers/suno"
	"github.com/scottrhay/AIAMusic/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	songs := repo.NewSongRepository(dbpool)
	styles := repo.NewStyleRepository(dbpool)
	users := repo.NewUserRepository(dbpool)

	audioStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare audio storage")
	}

	sunoClient := suno.NewClient(suno.Options{
		APIKey:         cfg.SunoAPIKey,
		BaseURL:        cfg.SunoAPIURL,
		Model:          cfg.SunoModel,
		CallbackURL:    cfg.SunoCallbackURL(),
		Logger:         &logger,
		RequestTimeout: cfg.SunoTimeout,
	})
	speechClient := speech.NewClient(speech.Options{
		SubscriptionKey: cfg.AzureSpeechKey,
		Region:          cfg.AzureSpeechRegion,
		Logger:          &logger,
		RequestTimeout:  cfg.SpeechTimeout,
	})

	generators := map[string]musicgen.Generator{
		domain.ProviderSuno:   musicgen.NewSunoGenerator(sunoClient),
		domain.ProviderSpeech: musicgen.NewSpeechGenerator(speechClient, audioStore, cfg.StorageBaseURL),
	}

	service := musicgen.NewService(songs, styles, generators, &logger)
	reconciler := musicgen.NewReconciler(songs, generators, &logger)

	app := &handlers.App{
		Songs:      service,
		Styles:     styles,
		Users:      users,
		Reconciler: reconciler,
		Speech:     speechClient,
		Config:     cfg,
		Logger:     &logger,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
