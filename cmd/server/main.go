package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"comm-agent/cmd"
	"comm-agent/internal/api"
	"comm-agent/internal/chat"
	"comm-agent/internal/llm"
	pkgapi "comm-agent/pkg/api"
)

type Config struct {
	Root        string  `env:"ROOT" envDefault:"./comm-agent"`
	Port        int     `env:"PORT" envDefault:"8000"`
	OllamaHost  string  `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel string  `env:"OLLAMA_MODEL" envDefault:"yasserrmd/DeepScaleR-1.5B-Preview:latest"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.3"`
	MaxTokens   int     `env:"MAX_TOKENS" envDefault:"4096"`
	TopP        float64 `env:"TOP_P" envDefault:"0.9"`
	TopK        int     `env:"TOP_K" envDefault:"40"`
	LLMTimeout  int     `env:"LLM_TIMEOUT_SECONDS" envDefault:"120"`
}

func createServer(client llm.Client, settings pkgapi.GenerationSettings, port int) *http.Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(180 * time.Second))

	emailHandler := api.NewEmailService(client, settings)
	chatHandler := api.NewChatService(chat.NewManager(client))
	statusHandler := api.NewStatusService(client)

	r.Get("/", api.HealthHandler())
	r.Route("/api/v1", func(r chi.Router) {
		emailHandler.AddRoutes(r)
		chatHandler.AddRoutes(r)
		statusHandler.AddRoutes(r)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
}

func main() {
	cmd.LoadEnvFile()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := os.MkdirAll(cfg.Root, os.ModePerm); err != nil {
		log.Fatalf("error creating directory for log file: %v", err)
	}

	f, err := os.OpenFile(filepath.Join(cfg.Root, "backend.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	log.SetOutput(io.MultiWriter(f, os.Stderr))

	slog.Info("starting backend", "root", cfg.Root, "port", cfg.Port, "ollama_host", cfg.OllamaHost, "ollama_model", cfg.OllamaModel)

	settings := pkgapi.GenerationSettings{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
	}

	client, err := llm.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, settings, time.Duration(cfg.LLMTimeout)*time.Second)
	if err != nil {
		log.Fatalf("could not create model client: %v", err)
	}

	server := createServer(client, settings, cfg.Port)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
