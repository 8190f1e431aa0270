// Command gameday serves the teams and games API and runs its maintenance
// tasks.
//
//	gameday                  serve (default)
//	gameday migrate          apply database migrations and exit
//	gameday normalize-slugs  recompute every team slug and exit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/gameday/internal/config"
	"github.com/deppfellow/gameday/internal/database"
	"github.com/deppfellow/gameday/internal/handler"
	"github.com/deppfellow/gameday/internal/logger"
	"github.com/deppfellow/gameday/internal/repository"
	"github.com/deppfellow/gameday/internal/router"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/deppfellow/gameday/internal/service"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:   config.ServiceName,
		Usage:  "teams and games REST API",
		Action: serve,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "shutdown-timeout",
				Usage:   "how long in-flight requests may take to finish on shutdown",
				Value:   defaultShutdownTimeout,
				EnvVars: []string{config.EnvPrefix + "SHUTDOWN_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:  "skip-migrations",
				Usage: "start without applying pending migrations",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations",
				Action: migrate,
			},
			{
				Name:   "normalize-slugs",
				Usage:  "recompute every team slug from its name",
				Action: normalizeSlugs,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps holds what every command needs: config and loggers.
type deps struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func setup() (*deps, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	return &deps{
		cfg:           cfg,
		log:           logger.NewLoggerWithService(cfg.Observability, loggerService),
		loggerService: loggerService,
	}, nil
}

// newServer creates the server and the services on top of it.
func (rt *deps) newServer(ctx context.Context) (*server.Server, *service.Services, error) {
	srv, err := server.New(ctx, rt.cfg, &rt.log, rt.loggerService)
	if err != nil {
		return nil, nil, err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		_ = srv.Shutdown(ctx)
		return nil, nil, fmt.Errorf("failed to create services: %w", err)
	}
	return srv, services, nil
}

func serve(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.loggerService.Shutdown()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.Bool("skip-migrations") {
		if err := database.Migrate(ctx, &rt.log, rt.cfg.Database.DSN()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, services, err := rt.newServer(ctx)
	if err != nil {
		return err
	}

	// Slugs are consistent before the first request is accepted.
	if _, err := services.Teams.NormalizeSlugs(ctx); err != nil {
		_ = srv.Shutdown(context.Background())
		return fmt.Errorf("failed to normalize team slugs: %w", err)
	}

	srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Duration("shutdown-timeout"))
		defer cancel()

		rt.log.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		rt.log.Error().Err(err).Msg("server terminated with error")
		return err
	}

	rt.log.Info().Msg("server stopped")
	return nil
}

func migrate(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.loggerService.Shutdown()

	return database.Migrate(c.Context, &rt.log, rt.cfg.Database.DSN())
}

func normalizeSlugs(c *cli.Context) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.loggerService.Shutdown()

	srv, services, err := rt.newServer(c.Context)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Shutdown(context.Background()) }()

	updated, err := services.Teams.NormalizeSlugs(c.Context)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "normalized %d team slug(s)\n", updated)
	return nil
}
