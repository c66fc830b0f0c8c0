package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/frahmantamala/spendwise/internal/category"
	"github.com/frahmantamala/spendwise/internal/core/events"
	"github.com/frahmantamala/spendwise/internal/core/events/amqp"
	"github.com/frahmantamala/spendwise/internal/database"
	"github.com/frahmantamala/spendwise/internal/expense"
	"github.com/frahmantamala/spendwise/internal/expense/store"
	"github.com/frahmantamala/spendwise/internal/transport"
	"github.com/frahmantamala/spendwise/internal/transport/openapi"
	"github.com/frahmantamala/spendwise/internal/transport/rest"
	"github.com/frahmantamala/spendwise/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *database.DB
	EventBus *events.EventBus
	Broker   *amqp.Client
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Server.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Logger.Info("starting HTTP server", "address", server.Addr, "driver", deps.DB.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	deps.Logger.Info("server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadAndInit()
	if err != nil {
		return nil, err
	}
	lg := logger.LoggerWrapper()

	if _, err := openapi.Load(ctx); err != nil {
		return nil, err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:   cfg,
		DB:       db,
		EventBus: events.NewEventBus(lg),
		Logger:   lg,
	}
	deps.EventBus.Subscribe(events.WildcardType, events.LogHandler(lg))

	if cfg.Events.AMQP.Enabled {
		broker, err := amqp.Dial(cfg.Events.AMQP, lg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to broker: %w", err)
		}
		deps.Broker = broker
		deps.EventBus.Subscribe(events.WildcardType, broker.Forwarder())
	}

	repo := store.NewExpenseRepository(db, cfg.Database.QueryTimeout)
	statsCache := cache.New(cfg.Cache.StatsTTL, cfg.Cache.CleanupInterval)
	service := expense.NewService(repo, deps.EventBus, statsCache, lg)

	categoryHandler := category.NewHandler(transport.NewBaseHandler(lg), category.NewService(service, lg))

	deps.Router = chi.NewRouter()
	rest.RegisterAllRoutes(deps.Router, cfg, rest.NewHealthHandler(db, cfg.Database.Driver), expense.NewHandler(service), categoryHandler, lg)

	return deps, nil
}

// Close drains in-flight event handlers before releasing the broker and
// database.
func (d *Dependencies) Close() {
	d.EventBus.Wait()
	if d.Broker != nil {
		if err := d.Broker.Close(); err != nil {
			d.Logger.Error("broker close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

// openDatabase connects and, unless disabled, brings the schema up to date.
func openDatabase(ctx context.Context, cfg *internal.Config) (*database.DB, error) {
	debug := logger.ParseLevel(cfg.Observability.Logging.Level) == slog.LevelDebug
	db, err := database.Open(cfg.Database, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, db.SQLX.DB, db.Driver); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return db, nil
}
