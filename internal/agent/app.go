// Package agent initializes and runs the activity watcher. It wires the
// remote client, session manager, reconciler, watermark and sink into the
// supervisor loop and handles graceful shutdown on OS signals.
package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/pswatch/internal/agent/config"
	"github.com/dmitrijs2005/pswatch/internal/agent/reconcile"
	"github.com/dmitrijs2005/pswatch/internal/agent/session"
	"github.com/dmitrijs2005/pswatch/internal/agent/sink"
	"github.com/dmitrijs2005/pswatch/internal/agent/supervisor"
	"github.com/dmitrijs2005/pswatch/internal/agent/watermark"
	"github.com/dmitrijs2005/pswatch/internal/logging"
	"github.com/dmitrijs2005/pswatch/internal/ras"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	supervisor *supervisor.Supervisor
}

func NewApp(cfg *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.SinkDSN)
	if err != nil {
		return nil, fmt.Errorf("sink db init error: %w", err)
	}

	client := ras.NewHTTPClient(cfg.RemoteHost, cfg.RemoteTimeout)
	sessions := session.NewManager(client, logger, session.Identity{
		Version:     cfg.ClientVersion,
		Locale:      cfg.Locale,
		TimeZoneID:  cfg.TimeZoneID,
		Workstation: cfg.Workstation,
	})
	reconciler := reconcile.NewReconciler(client, logger, cfg.SiteID, cfg.PageSize)
	marks := watermark.NewTracker(time.Now(), cfg.Lookback)
	writer := sink.NewPostgresWriter(db, logger)

	sup := supervisor.New(sessions, reconciler, writer, marks, supervisor.Options{
		Username:        cfg.Username,
		Password:        cfg.Password,
		PollInterval:    cfg.PollInterval,
		SessionLifetime: cfg.SessionLifetime,
		RetryBackoff:    cfg.RetryBackoff,
		LogoutTimeout:   cfg.LogoutTimeout,
	}, logger)

	return &App{config: cfg, logger: logger, db: db, supervisor: sup}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run applies sink migrations when configured and drives the supervisor
// until an OS signal cancels the context. Cancellation is a normal exit.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	defer app.db.Close()

	app.logger.Info(ctx, "starting agent", "host", app.config.RemoteHost)

	if app.config.MigrateOnStart {
		if err := sink.RunMigrations(ctx, app.db); err != nil {
			return fmt.Errorf("sink migration error: %w", err)
		}
	}

	err := app.supervisor.Run(ctx)
	if errors.Is(err, context.Canceled) {
		app.logger.Info(ctx, "agent stopped")
		return nil
	}
	return err
}
