// Package server wires the auction engine together: storage, notification
// sinks, services, the lifecycle sweeper and the gRPC endpoint. It also
// owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/clock"
	"github.com/dmitrijs2005/auctionhouse/internal/dbx"
	"github.com/dmitrijs2005/auctionhouse/internal/logging"
	"github.com/dmitrijs2005/auctionhouse/internal/server/config"
	"github.com/dmitrijs2005/auctionhouse/internal/server/events"
	"github.com/dmitrijs2005/auctionhouse/internal/server/lifecycle"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/memory"
	"github.com/dmitrijs2005/auctionhouse/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auctionhouse/internal/server/services"
	"github.com/dmitrijs2005/auctionhouse/internal/server/sweeper"

	gs "github.com/dmitrijs2005/auctionhouse/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	store          repomanager.Store
	notifier       *events.Async
	userService    *services.UserService
	itemService    *services.ItemService
	auctionService *services.AuctionService
	bidService     *services.BidService
	sweeper        *sweeper.Sweeper

	// closers release connections in reverse order of acquisition.
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	store, err := app.openStore(ctx)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.store = store

	publisher, err := app.openPublisher(ctx)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("notification init error: %w", err)
	}
	app.notifier = events.NewAsync(publisher, c.NotifyTimeout, logger.With("module", "notifier"))

	clk := clock.System{}
	softClose := lifecycle.SoftClose{Window: c.SoftCloseWindow, Extension: c.SoftCloseExtension}

	app.userService = services.NewUserService(store, c.SecretKey, c.AccessTokenValidityDuration)
	app.itemService = services.NewItemService(store)
	app.auctionService = services.NewAuctionService(store, clk, app.notifier, logger.With("module", "auctions"))
	app.bidService = services.NewBidService(store, clk, softClose, app.notifier, logger.With("module", "bids"))

	sw, err := sweeper.New(app.auctionService, c.SweepInterval, logger.With("module", "sweeper"))
	if err != nil {
		app.close()
		return nil, err
	}
	app.sweeper = sw

	return app, nil
}

// openStore picks PostgreSQL when a DSN is configured and the in-memory
// ledger otherwise.
func (app *App) openStore(ctx context.Context) (repomanager.Store, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database DSN configured, using in-memory ledger")
		return memory.NewStore(), nil
	}

	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return repomanager.NewSQLStore(dbx.NewSQLLedger(db), m), nil
}

// openPublisher connects every configured sink.
func (app *App) openPublisher(ctx context.Context) (events.Publisher, error) {
	c := app.config
	var sinks events.Fanout

	if c.NatsURL != "" {
		conn, err := events.DialNATS(c.NatsURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() error { return conn.Drain() })
		sinks = append(sinks, events.NewNATSPublisher(conn))
	}

	if c.RedisAddr != "" {
		rdb, err := events.DialRedis(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, rdb.Close)
		sinks = append(sinks, events.NewRedisPublisher(rdb))
	}

	if c.S3Bucket != "" {
		client, err := events.NewS3Client(ctx, events.S3Settings{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, events.NewS3Archiver(client, c.S3Bucket))
	}

	if len(sinks) == 0 {
		app.logger.Info(ctx, "no notification sinks configured")
		return events.Noop{}, nil
	}
	app.logger.Info(ctx, "notification sinks configured", "count", len(sinks))
	return sinks, nil
}

func (app *App) close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.itemService, app.auctionService, app.bidService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until SIGINT/SIGTERM/SIGQUIT or ctx cancellation, then drains
// pending notifications and closes connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.NotifyTimeout+time.Second)
	defer cancel()

	if err := app.notifier.Close(shutdownCtx); err != nil {
		app.logger.Warn(shutdownCtx, "pending notifications abandoned", "error", err)
	}
	if err := app.close(); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	app.logger.Info(shutdownCtx, "App stopped")
}
