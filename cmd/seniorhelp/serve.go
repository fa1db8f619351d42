package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TAKIS21345/SeniorHelp/internal/knowledge"
	"github.com/TAKIS21345/SeniorHelp/internal/llm"
	"github.com/TAKIS21345/SeniorHelp/internal/server"
)

const probeTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the answer provider",
	Long: `Serve answers questions over HTTP for the terminal client.

It keeps a chat history per client session, asks the configured model for a numbered
step-by-step answer and records questions in the knowledge base.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := newModel()
	if err != nil {
		return err
	}

	var recorder *knowledge.Recorder
	if cfg.Server.Knowledge.Enabled {
		store, err := knowledge.Open(cfg.Server.Knowledge.Driver, cfg.Server.Knowledge.Path)
		if err != nil {
			return fmt.Errorf("open knowledge base: %w", err)
		}
		defer store.Close()
		recorder = knowledge.NewRecorder(store, cfg.Server.Knowledge.Similarity)
		logger.Info("knowledge base ready",
			zap.String("driver", cfg.Server.Knowledge.Driver),
			zap.String("path", cfg.Server.Knowledge.Path))
	}

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RatePerMinute:  cfg.Server.RateLimit.PerMinute,
		RateBurst:      cfg.Server.RateLimit.Burst,
		SessionTTL:     cfg.SessionTTL(),
		AnswerTimeout:  cfg.LLMTimeout(),
	}, model, recorder, logger.Named("server"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		// an unreachable model is reported, not fatal
		probeCtx, cancel := context.WithTimeout(gctx, probeTimeout)
		defer cancel()
		if err := model.Ping(probeCtx); err != nil {
			logger.Warn("model not reachable yet", zap.String("model", model.Name()), zap.Error(err))
			return nil
		}
		logger.Info("model reachable", zap.String("model", model.Name()))
		return nil
	})
	return g.Wait()
}

func newModel() (llm.Client, error) {
	model, err := llm.NewFromEnv(llm.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		Endpoint:    cfg.LLM.Endpoint,
		APIKey:      cfg.LLM.APIKey,
		Temperature: cfg.LLM.Temperature,
		NumCtx:      cfg.LLM.NumCtx,
		HTTPClient:  &http.Client{Timeout: cfg.LLMTimeout()},
	})
	if err != nil {
		return nil, fmt.Errorf("configure model: %w", err)
	}
	return model, nil
}
