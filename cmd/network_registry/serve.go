package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "network_registry/docs"
	"network_registry/internal/app/provider"
	"network_registry/internal/app/service"
	"network_registry/internal/infrastructure/balancestore"
	"network_registry/internal/infrastructure/configloader"
	"network_registry/internal/infrastructure/httpclient"
	"network_registry/internal/infrastructure/metrics"
	clientprovider "network_registry/internal/infrastructure/network/client"
	networkdefinition "network_registry/internal/infrastructure/network/definition"
	"network_registry/internal/infrastructure/restapi"
	"network_registry/internal/infrastructure/selectionstore"
	"network_registry/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type ServeCmd struct{}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, err := configloader.Load(globals.Config)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if globals.LogLevel != "" {
		level = globals.LogLevel
	}
	zapLogger := logger.Init(level)
	defer func() { _ = zapLogger.Sync() }()
	zapLogger.Info("Configuration loaded", zap.String("path", globals.Config))

	definitions, err := networkdefinition.NewNetworkDefinitionProvider(logger.NewSlogAdapter(), cfg.Registry.NetworksFile, cfg.Registry.Networks)
	if err != nil {
		return fmt.Errorf("failed to load network descriptors: %w", err)
	}
	fallback := definitions.Fallback(cfg.Registry.FallbackChainID)

	registry := service.NewNetworkRegistry(cfg.Registry.BootstrapChainID, zapLogger)

	// Prometheus
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewRegistryCollector(registry),
	)
	appMetrics := metrics.New()
	appMetrics.MustRegister(promRegistry)

	clients := clientprovider.NewEVMClientProvider(clientprovider.DialOptions{
		ConnectionTimeout: configloader.Millis(cfg.RpcClient.ConnectTimeoutMs),
		RPCCallTimeout:    configloader.Millis(cfg.RpcClient.CallTimeoutMs),
		AttemptsPerURL:    cfg.RpcClient.DialAttempts,
		RetryDelay:        configloader.Millis(cfg.RpcClient.RetryDelayMs),
	}, logger.NewSlogAdapter())
	defer clients.Close()

	// removal unregisters the chain through the manager, list updates reinstate it
	networks := service.NewConnectionManager(registry, clients, zapLogger)
	networks.SetNetworks(definitions.GetAllNetworkDefinitions())

	balances := balancestore.New(time.Duration(cfg.Balances.TTLMinutes)*time.Minute, logger.NewSlogAdapter())
	selection := selectionstore.New(fallback)

	orchestrator := service.NewRemovalOrchestrator(
		selection,
		balances,
		networks,
		fallback,
		configloader.Millis(cfg.Removal.StepTimeoutMs),
		appMetrics,
		zapLogger,
	)

	watcher := service.NewBlockWatcher(registry, clients, service.BlockWatcherConfig{
		PollInterval:          configloader.Millis(cfg.Watcher.PollIntervalMs),
		MaxConcurrentNetworks: cfg.Watcher.MaxConcurrentNetworks,
		RateLimitPerSecond:    cfg.Watcher.RateLimitPerSecond,
		RateBurst:             cfg.Watcher.Burst,
	}, appMetrics, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error { return ignoreCanceled(watcher.Run(egCtx)) })

	if cfg.Connectivity.ProbeURL != "" {
		prober, err := httpclient.NewHTTPProber(cfg.Connectivity.ProbeURL, configloader.Millis(cfg.Connectivity.TimeoutMs), zapLogger)
		if err != nil {
			return err
		}
		monitor := service.NewConnectivityMonitor(
			prober,
			service.NewErrorBroadcaster(registry, zapLogger),
			configloader.Millis(cfg.Connectivity.IntervalMs),
			zapLogger,
		)
		eg.Go(func() error { return ignoreCanceled(monitor.Run(egCtx)) })
	} else {
		zapLogger.Info("Connectivity probe disabled")
	}

	if cfg.Balances.WalletsFile != "" {
		tracker := service.NewBalanceTracker(
			provider.NewWalletProvider(cfg.Balances.WalletsFile, logger.NewSlogAdapter()),
			registry,
			clients,
			balances,
			cfg.RpcClient.MaxAddressesPerBatchCall,
			cfg.Balances.MaxConcurrent,
			appMetrics,
			zapLogger,
		)
		eg.Go(func() error {
			return ignoreCanceled(tracker.Run(egCtx, configloader.Millis(cfg.Balances.RefreshIntervalMs)))
		})
	} else {
		zapLogger.Info("Balance tracking disabled, no wallets file configured")
	}

	if !strings.EqualFold(level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	swaggerPath := ""
	if cfg.Swagger.Enabled {
		swaggerPath = cfg.Swagger.Path
		zapLogger.Info("Swagger UI enabled", zap.String("path", swaggerPath+"/index.html"))
	}
	handler := restapi.NewNetworkHandler(networks, orchestrator, selection, balances, fallback, logger.NewSlogAdapter())
	router := restapi.SetupRouter(handler, restapi.RouterOptions{
		AllowOrigins: cfg.Server.AllowOrigins,
		Metrics:      promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		SwaggerPath:  swaggerPath,
	})

	srv := &http.Server{
		Addr:         listenAddr(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	eg.Go(func() error {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		zapLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	zapLogger.Info("Server exiting")
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
