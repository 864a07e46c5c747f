package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/turiddu25/cobble-economy/internal/bridge/command"
	"github.com/turiddu25/cobble-economy/internal/bridge/config"
	"github.com/turiddu25/cobble-economy/internal/bridge/coordinator"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	httpwrap "github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/http"
	"github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/memory"
	"github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/postgres"
	"github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/ws"
	"github.com/turiddu25/cobble-economy/internal/bridge/listener"
	"github.com/turiddu25/cobble-economy/internal/bridge/shop"
	"github.com/turiddu25/cobble-economy/internal/bridge/valuation"
	"github.com/turiddu25/cobble-economy/internal/pkg/database"
	"github.com/turiddu25/cobble-economy/internal/pkg/jwt"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
	"github.com/turiddu25/cobble-economy/internal/pkg/telemetry"
	"github.com/turiddu25/cobble-economy/migrations"
)

const (
	shutdownTimeout = 5 * time.Second
	serviceName     = "economy-bridge"
)

type economyBackend interface {
	domain.EconomyService
	domain.AccountOpener
}

type BridgeApp struct {
	cfg    BridgeConfig
	logger logging.Logger

	mu                sync.Mutex
	httpServer        *http.Server
	grpcServer        *grpc.Server
	health            *health.Server
	hub               *ws.Hub
	dbpool            *pgxpool.Pool
	group             *errgroup.Group
	stopCoordinator   context.CancelFunc
	telemetryShutdown func(context.Context) error
}

func NewBridgeApp(cfg BridgeConfig, logger logging.Logger) *BridgeApp {
	return &BridgeApp{
		cfg:    cfg,
		logger: logger,
	}
}

// Run wires the bridge and serves HTTP and gRPC until ctx is done or a server fails. Call
// Shutdown afterwards to stop the servers and drain the coordinator.
func (a *BridgeApp) Run(ctx context.Context, grpcLis net.Listener) error {
	logger := a.logger
	cfg := a.cfg

	telemetryShutdown, err := telemetry.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	a.mu.Lock()
	a.telemetryShutdown = telemetryShutdown
	a.mu.Unlock()

	bundle, err := config.LoadBundle(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	logger.Info("rules loaded", "path", cfg.RulesPath, "rules", bundle.Rules.Len(), "offers", len(bundle.Catalog.Offers))

	accounts, journal, dbpool, err := a.openEconomy(ctx)
	if err != nil {
		return err
	}

	engine := valuation.NewEngine(bundle.Rules)
	coord := coordinator.New(accounts, engine, cfg.CoordinatorConfig(), logger, coordinator.WithJournal(journal))

	controller := shop.NewController(bundle.Catalog, coord, engine, logger)
	coord.AddSink(controller)

	reloader := newConfigReloader(cfg.RulesPath, engine, controller)
	dispatcher := command.NewDispatcher(reloader, accounts, journal, coord, bundle.Catalog.Currency, logger)
	reloader.setCurrencySetter(dispatcher)

	hostListener := listener.NewListener(coord, logger)

	hub := ws.NewHub(hostListener, dispatcher, ws.Config{}, logger)
	coord.AddSink(hub)
	controller.SetPublisher(hub)

	handler := httpwrap.NewBridgeHandler(hostListener, accounts, controller, dispatcher, coord, cfg.StartBalance)
	router := newRouter(handler, hub, httpwrap.NewAuthMiddleware(cfg.JwtSecret, jwt.NewJWTTokenParser(), logger))

	httpServer := &http.Server{
		Addr:    cfg.HttpPort,
		Handler: router,
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	coordCtx, stopCoordinator := context.WithCancel(context.WithoutCancel(ctx))
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))

	a.mu.Lock()
	a.httpServer = httpServer
	a.grpcServer = grpcServer
	a.health = healthServer
	a.hub = hub
	a.dbpool = dbpool
	a.group = g
	a.stopCoordinator = stopCoordinator
	a.mu.Unlock()

	g.Go(func() error {
		return coord.Run(coordCtx)
	})
	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HttpPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error while starting http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("starting gRPC server", "addr", grpcLis.Addr().String())
		if err := grpcServer.Serve(grpcLis); err != nil {
			return fmt.Errorf("failed to serve gRPC: %w", err)
		}
		return nil
	})

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	select {
	case <-ctx.Done():
		return nil
	case <-gctx.Done():
		return context.Cause(gctx)
	}
}

func (a *BridgeApp) openEconomy(ctx context.Context) (economyBackend, domain.TransactionJournal, *pgxpool.Pool, error) {
	if a.cfg.EconomyBackend == BackendMemory {
		a.logger.Warn("using in-memory economy, balances are lost on restart")
		return memory.NewAccounts(), memory.NewJournal(), nil, nil
	}

	dbURL := a.cfg.DbSettings.GetURL()

	if err := database.MigrateDatabase(ctx, dbURL, migrations.FS, migrations.Dir, a.logger); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if a.cfg.DbSettings.MaxConns > 0 {
		poolConfig.MaxConns = a.cfg.DbSettings.MaxConns
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	txManager := database.NewDelegateTxManager(dbpool, a.logger)
	return postgres.NewAccounts(dbpool, txManager), postgres.NewJournal(dbpool), dbpool, nil
}

func newRouter(handler *httpwrap.BridgeHandler, hub *ws.Hub, authMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api", authMiddleware)
	{
		api.POST("/events", handler.IngestEvent)
		api.POST("/accounts/:"+httpwrap.PlayerKey, handler.EnsureAccount)

		api.GET("/shop/:"+httpwrap.PlayerKey, handler.OpenShop)
		api.POST("/shop/:"+httpwrap.PlayerKey+"/select", handler.SelectOffer)
		api.DELETE("/shop/:"+httpwrap.PlayerKey, handler.CloseShop)

		api.POST("/commands", handler.ExecuteCommand)
		api.GET("/transactions/:"+httpwrap.IDKey, handler.GetTransaction)

		api.GET("/ws", hub.Serve)
	}

	return router
}

// Shutdown stops accepting work, lets in-flight transactions finish and releases the database.
func (a *BridgeApp) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	defer func() {
		if a.telemetryShutdown == nil {
			return
		}
		if err := a.telemetryShutdown(shutdownCtx); err != nil {
			a.logger.Error("telemetry shutdown failed", "error", err.Error())
		}
		a.telemetryShutdown = nil
	}()

	if a.group == nil {
		return
	}

	a.logger.Info("shutting down bridge")
	a.health.Shutdown()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", "error", err.Error())
	}
	a.hub.Close()
	a.grpcServer.GracefulStop()

	a.stopCoordinator()
	if err := a.group.Wait(); err != nil {
		a.logger.Error("bridge stopped with error", "error", err.Error())
	}

	if a.dbpool != nil {
		a.dbpool.Close()
	}

	a.group = nil
	a.logger.Info("bridge stopped")
}
