package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/themis/pkg/cli/config"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthn bool
	var noAuthnUser string
	var noAuthnName string
	var noAuthnRole string
	var seedFile string
	var sweepInterval time.Duration
	var repoCfg config.Repository
	var processCfg config.Process

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "no-authn",
			Usage:       "Skip authentication and act as a fixed user (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_NO_AUTHN"),
			Destination: &noAuthn,
		},
		&cli.StringFlag{
			Name:        "no-authn-user",
			Usage:       "User ID for no-authn mode",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_NO_AUTHN_USER"),
			Destination: &noAuthnUser,
		},
		&cli.StringFlag{
			Name:        "no-authn-name",
			Usage:       "Display name for no-authn mode",
			Category:    "Authentication",
			Sources:     cli.EnvVars("THEMIS_NO_AUTHN_NAME"),
			Destination: &noAuthnName,
		},
		&cli.StringFlag{
			Name:        "no-authn-role",
			Usage:       "Role for no-authn mode (executor or overseer)",
			Category:    "Authentication",
			Value:       string(types.RoleExecutor),
			Sources:     cli.EnvVars("THEMIS_NO_AUTHN_ROLE"),
			Destination: &noAuthnRole,
		},
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "Path to a JSON seed file imported at startup",
			Sources:     cli.EnvVars("THEMIS_SEED_FILE"),
			Destination: &seedFile,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval for the overdue task sweep (0 disables)",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("THEMIS_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, processCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			if err := processCfg.Configure(ctx, repo); err != nil {
				return goerr.Wrap(err, "failed to load process templates")
			}

			if seedFile != "" {
				seed, err := loadSeedData(ctx, seedFile)
				if err != nil {
					return goerr.Wrap(err, "failed to load seed file")
				}
				if _, err := importSeedData(ctx, repo, seed); err != nil {
					return goerr.Wrap(err, "failed to import seed data")
				}
			}

			var authUC usecase.AuthUseCaseInterface
			if noAuthn {
				role, err := types.ParseUserRole(noAuthnRole)
				if err != nil {
					return goerr.Wrap(err, "invalid no-authn role")
				}
				authUC = usecase.NewNoAuthnUseCase(types.UserID(noAuthnUser), noAuthnName, role)
				logging.Default().Warn("Running in no-authn mode (development only)",
					"user_id", noAuthnUser)
			} else {
				authUC = usecase.NewSessionAuthUseCase(repo)
			}

			uc := usecase.New(repo, usecase.WithAuth(authUC))

			if sweepInterval > 0 {
				sweepCtx, cancelSweep := context.WithCancel(ctx)
				defer cancelSweep()
				startOverdueSweep(sweepCtx, uc, sweepInterval)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

// startOverdueSweep periodically escalates tasks whose deadline has passed.
// Each sweep runs detached so a slow backend never stalls the ticker.
func startOverdueSweep(ctx context.Context, uc *usecase.UseCases, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				async.Dispatch(ctx, func(ctx context.Context) error {
					n, err := uc.Task.SweepOverdue(ctx)
					if err != nil {
						return err
					}
					if n > 0 {
						logging.From(ctx).Info("Escalated overdue tasks", "count", n)
					}
					return nil
				})
			}
		}
	}()
}
