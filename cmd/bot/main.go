package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edventure/tutorbot/internal/config"
	"github.com/edventure/tutorbot/internal/conversation"
	"github.com/edventure/tutorbot/internal/handler"
	"github.com/edventure/tutorbot/internal/model/user"
	"github.com/edventure/tutorbot/internal/service/ai"
	"github.com/edventure/tutorbot/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Identity store: SQLite when a path is configured, in-memory otherwise.
	var users user.Store
	if cfg.Store.Path != "" {
		sqliteStore, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			log.Fatalf("failed to open identity store: %v", err)
		}
		defer sqliteStore.Close()
		if err := sqliteStore.Ping(ctx); err != nil {
			log.Fatalf("identity store health check failed: %v", err)
		}
		users = sqliteStore
		log.Printf("identity store opened at %s", cfg.Store.Path)
	} else {
		users = user.NewMemoryStore()
		log.Println("SQLITE_PATH not set, using in-memory identity store")
	}

	// Completion service is optional: without credentials the bot still
	// handles accounts and subjects, and tutoring degrades gracefully.
	var completions conversation.CompletionService
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - check the ARK_* environment variables")
		} else {
			completions = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, skipping AI initialization")
	}

	engine := conversation.New(users, completions, cfg.Bot.Subjects, cfg.Bot.Curriculum)
	router := handler.NewRouter(engine)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("tutor bot gateway listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
