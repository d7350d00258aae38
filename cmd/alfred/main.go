package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/liliang-cn/alfred/internal/api"
	"github.com/liliang-cn/alfred/internal/config"
	"github.com/liliang-cn/alfred/internal/llm"
	applog "github.com/liliang-cn/alfred/internal/logger"
	"github.com/liliang-cn/alfred/internal/nlp"
	"github.com/liliang-cn/alfred/internal/repository"
	"github.com/liliang-cn/alfred/internal/service"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	printBanner(cfg)

	// Initialize database (sessions and conversations)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepository(db)

	// Load language models
	recognizer, err := nlp.NewProseRecognizer(cfg.NLP.ModelDir)
	if err != nil {
		logger.Fatal("NER model not available. Point nlp.model_dir (ALFRED_NLP_MODEL_DIR) at a model saved with prose, or leave it empty to use the embedded model.",
			zap.String("model_dir", cfg.NLP.ModelDir),
			zap.Error(err),
		)
	}
	sentiment := nlp.NewVaderAnalyzer()

	completer := llm.NewClient(cfg.LLM)

	// Initialize services
	sessionService := service.NewSessionService(sessionRepo, logger)
	chatService := service.NewChatService(sessionRepo, completer, cfg.Chat.Debounce, logger)
	analysisService := service.NewAnalysisService(sessionRepo, recognizer, sentiment, cfg.Session.CacheTTL, logger)
	exportService := service.NewExportService(chatService, analysisService)

	// Setup router
	router, err := api.SetupRouter(api.Services{
		Sessions: sessionService,
		Chat:     chatService,
		Analysis: analysisService,
		Exports:  exportService,
	}, api.RouterConfig{
		CookieName:     cfg.Session.CookieName,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to set up router", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Session.IdleTimeout > 0 {
		go sessionService.RunJanitor(ctx, cfg.Session.IdleTimeout, janitorInterval(cfg.Session.IdleTimeout))
	}

	// Create HTTP server. WriteTimeout leaves room for a slow completion.
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting Alfred AI server",
			zap.String("address", cfg.Address()),
			zap.String("llm_base_url", cfg.LLM.BaseURL),
			zap.String("llm_model", completer.Model()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// janitorInterval checks for idle sessions a few times per timeout, at most hourly
func janitorInterval(idle time.Duration) time.Duration {
	interval := idle / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func printBanner(cfg *config.Config) {
	banner := `
    _    _  __              _      _    ___
   / \  | |/ _|_ __ ___  __| |    / \  |_ _|
  / _ \ | | |_| '__/ _ \/ _' |   / _ \  | |
 / ___ \| |  _| | |  __/ (_| |  / ___ \ | |
/_/   \_\_|_| |_|  \___|\__,_| /_/   \_\___|
`
	color.Cyan(banner)
	color.Green("Listening on http://%s  (model %s)\n", cfg.Address(), cfg.LLM.Model)
}
