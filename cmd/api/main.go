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

	"github.com/sitewright/backend/internal/config"
	"github.com/sitewright/backend/internal/handler"
	assistantHandler "github.com/sitewright/backend/internal/handler/assistant"
	websiteHandler "github.com/sitewright/backend/internal/handler/website"
	"github.com/sitewright/backend/internal/index"
	"github.com/sitewright/backend/internal/service/ai"
	assistantService "github.com/sitewright/backend/internal/service/assistant"
	"github.com/sitewright/backend/internal/service/conversation"
	"github.com/sitewright/backend/internal/service/ingest"
	"github.com/sitewright/backend/internal/service/intent"
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

	if !cfg.AI.Enabled() {
		log.Fatal("model credentials missing: provide OPENAI_API_KEY or ARK_API_KEY + MODEL")
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to create chat model: %v", err)
	}
	log.Printf("using model: %s", cfg.AI.Model)

	// Website generation path
	websiteStore := conversation.NewStore()
	composer := ai.NewComposer(intent.KeywordClassifier{})
	generator, err := ai.NewGenerator(ctx, chatModel, composer, websiteStore, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize generator: %v", err)
	}

	// Retrieval index, built once at startup and reused across restarts.
	var engine assistantService.SearchEngine
	if cfg.Index.Enabled() {
		embedder, err := cfg.AI.NewEmbedder(ctx, cfg.Index.EmbedModel)
		if err != nil {
			log.Printf("warning: failed to create embedder: %v", err)
			log.Println("continuing without document search")
		} else {
			ix, err := index.Open(ctx, cfg.Index.DataDir, cfg.Index.StorageDir, cfg.Index.ChunkSize, embedder)
			if err != nil {
				log.Printf("warning: failed to open retrieval index: %v", err)
				log.Println("continuing without document search")
			} else {
				engine = index.NewEngine(ix, chatModel, cfg.Index.TopK)
				log.Println("retrieval index ready")
			}
		}
	} else {
		log.Println("EMBED_MODEL not configured, skipping retrieval index")
	}

	// Assistant path
	assistantStore := conversation.NewStore()
	pipeline := ingest.NewPipeline(cfg.Upload.MaxFileBytes)
	assistantSvc := assistantService.NewService(chatModel, engine, pipeline, assistantStore, cfg.Agent.MaxSteps, cfg.AI.Timeout)

	router := handler.NewRouter(
		websiteHandler.New(generator, websiteStore, cfg.AI),
		assistantHandler.New(assistantSvc, cfg.Upload.MaxFileBytes),
	)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("SiteWright backend listening on %s", serverCfg.Addr)
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
