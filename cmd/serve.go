package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khrees2412/mockprep/internal/api"
	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/service"
)

const (
	sessionPurgeInterval = time.Hour
	shutdownTimeout      = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config.HTTPAddr
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		h := &api.Handler{Services: service.FromApp(a), Logger: a.Logger}
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewRouter(h),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			a.Logger.Info("HTTP API listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			a.Logger.Info("shutting down HTTP API")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			purgeSessions(ctx, a)
			return nil
		})
		return g.Wait()
	},
}

// purgeSessions drops expired sessions until ctx is done
func purgeSessions(ctx context.Context, a *app.App) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Auth.PurgeExpired(ctx)
			if err != nil {
				a.Logger.Warn("failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				a.Logger.Debug("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to http_addr)")
}
