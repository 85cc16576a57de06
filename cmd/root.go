package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/config"
	"github.com/khrees2412/mockprep/internal/service"
	"github.com/khrees2412/mockprep/pkg/models"
)

var (
	verbose     bool
	logger      *zap.Logger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "mockprep",
	Short: "AI interview practice dashboard",
	Long: `mockprep keeps your profile, resume, job settings and activity history
for AI-generated interview practice. Every command works against the same
store the HTTP API (mockprep serve) uses.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Initialize app with all dependencies
		application, err = app.NewApp(cmd.Context(), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)

	// cobra skips post-run hooks when a command fails
	cleanup()
	stop()

	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// cleanup closes app resources and flushes the logger
func cleanup() {
	if application != nil {
		application.Close()
		application = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// reportError prints validation failures field by field
func reportError(err error) {
	var ve *app.ValidationError
	switch {
	case errors.As(err, &ve):
		fmt.Fprintln(os.Stderr, errorStyle.Render("Please fix the following:"))
		for _, f := range ve.Fields {
			fmt.Fprintf(os.Stderr, "  %s %s\n", labelStyle.Render(f.Field+":"), f.Message)
		}
	case errors.Is(err, app.ErrUnauthorized):
		fmt.Fprintln(os.Stderr, errorStyle.Render("Not signed in. Run 'mockprep account login' first."))
	case errors.Is(err, app.ErrIncorrectPassword):
		fmt.Fprintln(os.Stderr, errorStyle.Render("Current password is incorrect"))
	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
	}
}

// services builds the service layer over the command's App
func services(cmd *cobra.Command) (*service.Services, error) {
	a, err := app.FromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	return service.FromApp(a), nil
}

// signedIn resolves the stored session token
func signedIn(cmd *cobra.Command) (*service.Services, *models.Session, error) {
	svc, err := services(cmd)
	if err != nil {
		return nil, nil, err
	}
	token := config.Get("session_token")
	if token == "" {
		return nil, nil, app.ErrUnauthorized
	}
	session, err := svc.Account.Resolve(cmd.Context(), token)
	if err != nil {
		return nil, nil, err
	}
	return svc, session, nil
}
