package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/handler"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the server that generates feasibility questions, answers questions on uploaded PDFs and ingests new PDFs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		if !cfg.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		router := handler.NewRouter(handler.RouterDeps{
			Questions: a.questions,
			Asker:     a.rag,
			Ingester:  a.files,
			History:   a.history,
			Streamer:  a.websocket.HandleGenerate,
			UploadDir: cfg.UploadDir,
			JWTSecret: cfg.JWTSecret,
			Log:       log.Named("http"),
		})
		if cfg.JWTSecret == "" {
			log.Warn("JWT_SECRET is not set, uploads are not protected")
		}

		server := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		}
		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("port", cfg.Port), zap.String("llm_provider", cfg.LLMProvider), zap.String("model", cfg.Model))
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
