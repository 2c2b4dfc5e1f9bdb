package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Core holds the logging, storage and book management layers shared
// by the api server and the command line tools.
type Core struct {
	logger    *zap.Logger
	config    *Config
	clock     Clocker
	ids       UIDHandler
	storage   *StorageEngine
	books     *BookManager
	consumers []Consumer
	cleanups  []func() error
}

// NewCore sets up the logger and opens the configured storage. When
// withBackup is set and the backup is enabled, every write is published
// on the backup queue and a consumer is registered to replicate it.
func NewCore(ctx context.Context, config *Config, withBackup bool) (*Core, error) {
	clock := NewClock(config.IsProduction)
	logger, flusher := SetupLogging(config, NewRSyncWriter(config, clock), NewTickClock(clock))
	core := &Core{
		logger:   logger,
		config:   config,
		clock:    clock,
		ids:      NewIDsHandler(),
		cleanups: []func() error{flusher},
	}

	var redisClient *redis.Client
	getRedis := func() (*redis.Client, error) {
		if redisClient != nil {
			return redisClient, nil
		}
		client, err := GetRedisClient(&config.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis server: %w", err)
		}
		redisClient = client
		core.cleanups = append(core.cleanups, client.Close)
		return client, nil
	}

	kv, err := core.openStore(getRedis)
	if err != nil {
		_ = core.Close()
		return nil, err
	}

	var queue Queuer
	if withBackup && config.Backup.Enable {
		if config.Backup.Queue == QueueRedis {
			client, err := getRedis()
			if err != nil {
				_ = core.Close()
				return nil, err
			}
			queue = NewRedisQueue(client, config.Backup.QueueName)
		} else {
			queue = NewMemoryQueue()
		}

		db, err := GetBoltDBClient(&config.Backup.Store)
		if err != nil {
			_ = core.Close()
			return nil, fmt.Errorf("failed to open backup store: %w", err)
		}
		backup := NewBoltKVStore(logger, &config.Backup.Store, db)
		core.cleanups = append(core.cleanups, backup.Close)
		core.consumers = append(core.consumers, NewBackupConsumer(logger, queue, backup))
		logger.Info("core: backup enabled", zap.String("backup.queue", config.Backup.Queue), zap.String("backup.file", config.Backup.Store.FilePath))
	}

	core.storage = NewStorageEngine(logger, &config.Storage, clock, core.ids, kv, queue)
	core.books = NewBookManager(ctx, logger, clock, core.ids, core.storage)
	logger.Info("core: storage ready", zap.String("storage.driver", config.Storage.Driver), zap.Int("books", len(core.books.GetAllBooks())))
	return core, nil
}

// openStore opens the key-value store of the configured driver and
// registers its cleanup. The redis client is closed on its own.
func (c *Core) openStore(getRedis func() (*redis.Client, error)) (KeyValueStore, error) {
	var kv KeyValueStore
	switch c.config.Storage.Driver {
	case DriverMemory:
		kv = NewMemoryKVStore()
	case DriverBolt:
		db, err := GetBoltDBClient(&c.config.BoltDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to boltDB server: %w", err)
		}
		kv = NewBoltKVStore(c.logger, &c.config.BoltDB, db)
	case DriverSQLite:
		db, err := GetSQLiteClient(&c.config.SQLite)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		kv = NewSQLiteKVStore(c.logger, db)
	case DriverRedis:
		client, err := getRedis()
		if err != nil {
			return nil, err
		}
		return NewRedisKVStore(c.logger, client, c.config.Redis.HashName), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", c.config.Storage.Driver)
	}
	c.cleanups = append(c.cleanups, kv.Close)
	return kv, nil
}

// Seed populates an empty collection from the configured seed source.
func (c *Core) Seed(ctx context.Context) (int, error) {
	return c.books.Initialize(ctx, NewSeedProvider(c.logger, &c.config.Seed))
}

// Close runs the registered cleanups in reverse order. Logs are flushed last.
func (c *Core) Close() error {
	var errs []error
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		if err := c.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// App is the api server with its background consumers.
type App struct {
	core   *Core
	logger *zap.Logger
	config *Config
	server *http.Server
}

// NewApp provides an instance of App ready to run.
func NewApp(ctx context.Context, config *Config) (*App, error) {
	core, err := NewCore(ctx, config, true)
	if err != nil {
		return nil, err
	}
	logger := core.logger

	if n, err := core.Seed(ctx); err != nil {
		logger.Error("app: failed to seed the collection", zap.Error(err))
	} else if n > 0 {
		logger.Info("app: collection seeded", zap.String("seed.source", config.Seed.Source), zap.Int("count", n))
	}

	apiService := NewAPIHandler(
		logger,
		config,
		NewStatistics(config, core.clock.Now()),
		core.clock,
		core.books,
		core.storage,
	)

	// Build the map of middlewares stacks.
	middlewaresPublic, middlewaresOps := apiService.MiddlewaresStacks()

	// Configure the endpoints with their handlers and middlewares.
	router := apiService.SetupRoutes(httprouter.New(),
		&MiddlewareMap{
			public: middlewaresPublic.Chain,
			ops:    middlewaresOps.Chain,
		},
	)
	// Wrap the router with the default http timeout handler.
	routerWithTimeout := http.TimeoutHandler(
		router,
		config.Server.RequestTimeout,
		"Timeout. Processing taking too long. Please reach out to support.")

	// Build the api server definition.
	srv := &http.Server{
		Addr:           net.JoinHostPort(config.Server.Host, config.Server.Port),
		Handler:        routerWithTimeout,
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
		ConnContext:    SaveConnInContext,
	}

	return &App{
		core:   core,
		logger: logger,
		config: config,
		server: srv,
	}, nil
}

// Run starts the api web server, the queue consumers and a goroutine
// which is responsible to stop the server.
func (app *App) Run(ctx context.Context) error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	for _, consumer := range app.core.consumers {
		g.Go(func() error {
			return consumer.Consume(gCtx)
		})
	}
	g.Go(app.Serve())
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("api server stopped",
		zap.String("app.host", app.config.Server.Host),
		zap.String("app.port", app.config.Server.Port),
		zap.Error(err),
	)
	return err
}

// Clean releases the storage and flushes the logs.
func (app *App) Clean() {
	if err := app.core.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "error during app cleanup: ", err)
	}
}

// Serve starts the api web server. It returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("api server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
			zap.Bool("app.tls", app.config.Server.CertsFile != ""),
		)
		var err error
		if app.config.Server.CertsFile != "" && app.config.Server.KeyFile != "" {
			err = app.server.ListenAndServeTLS(app.config.Server.CertsFile, app.config.Server.KeyFile)
		} else {
			err = app.server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// the graceful did not complete successfully. We explicitly return `nil` to
// allow the errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("api server stopping. reason: requested to stop")
		} else {
			app.logger.Info("api server stopping. reason: errored at running")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		err := app.server.Shutdown(sCtx)
		switch {
		case err == nil, errors.Is(err, http.ErrServerClosed):
			app.logger.Info("api server graceful shutdown succeeded")
		case errors.Is(err, context.DeadlineExceeded):
			app.logger.Info("api server graceful shutdown timed out")
		default:
			app.logger.Info("api server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Info("api server going to force shutdown", zap.Error(app.server.Close()))
		}
		return nil
	}
}
