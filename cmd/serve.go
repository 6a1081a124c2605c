package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/api"
	"github.com/linesmerrill/report-designer-api/api/handlers"
	"github.com/linesmerrill/report-designer-api/api/scheduler"
	"github.com/linesmerrill/report-designer-api/config"
	"github.com/linesmerrill/report-designer-api/logging"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests
const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the report designer API server.
It connects to MongoDB, serves the REST and websocket API on $PORT and reaps
idle editing sessions in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := handlers.App{}
		a.Config = *config.New()

		ctx, cancel := context.WithTimeout(cmd.Context(), handlers.RequestTimeout)
		err := a.Initialize(ctx) //initialize database and router
		cancel()
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		sched := scheduler.NewScheduler(a.Sessions, a.Config.SessionIdleTimeout, logging.New("scheduler"))
		sched.OnReap = api.SetActiveSessions
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%v", a.Config.Port),
			Handler:           a.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.S().Infow("report-designer-api is up and running",
				"port", a.Config.Port,
				"url", a.Config.BaseUrl,
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		case <-quit:
		}

		zap.S().Info("shutting down server")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorw("server forced to shutdown", "error", err)
		}
		if err := a.Close(shutdownCtx); err != nil {
			zap.S().Errorw("failed to disconnect from database", "error", err)
		}
		_ = zap.L().Sync()
		return nil
	},
}
