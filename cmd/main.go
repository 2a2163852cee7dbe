package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/monotours24/tour-search-service/internal/app/config"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/app/endpoints"
	"github.com/monotours24/tour-search-service/internal/app/service"
	"github.com/monotours24/tour-search-service/internal/app/transport"
	"github.com/monotours24/tour-search-service/internal/pkg/apiconfig"
	"github.com/monotours24/tour-search-service/internal/pkg/logger"
	"github.com/monotours24/tour-search-service/internal/pkg/tour"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider"
	"github.com/monotours24/tour-search-service/internal/pkg/tourprovider/otpusk"
	"github.com/redis/go-redis/v9"
)

// @title           Tour Search Service API
// @version         0.0.1
// @description     tour-search-service, proxy and normalizer for the Otpusk tours API
// @host      localhost:8080
// @BasePath  /
func main() {

	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Debug("config loaded successfully",
		slog.Int("http_port", cfg.HTTP.Port),
		slog.String("api_config_path", cfg.Admin.APIConfigPath),
		slog.Bool("admin_protected", cfg.Admin.Secret != ""))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	endpts := makeEndpoints(ctx, &cfg)
	router := transport.MakeHTTPRouter(&cfg, endpts)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeEndpoints(ctx context.Context, cfg *config.Config) endpoints.Endpoints {
	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})

	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	store := apiconfig.NewFileStore(cfg.Admin.APIConfigPath)
	diagnostics := tourprovider.NewLastRequestSink()
	provider := initTourProvider(cfg, redisClient, diagnostics)

	// init service endpoint
	return endpoints.Endpoints{
		TourEndpoint:  makeTourEndpoint(store, provider, redisClient, cfg),
		AdminEndpoint: makeAdminEndpoint(store, provider, diagnostics),
	}
}

func initTourProvider(cfg *config.Config,
	redisClient *redis.Client,
	diagnostics tourprovider.DiagnosticSink,
) tourprovider.TourProvider {
	limiter := redis_rate.NewLimiter(redisClient)

	return otpusk.NewProvider(tourprovider.ProviderConfig{
		Timeout:      cfg.Upstream.Timeout,
		ProbeTimeout: cfg.Upstream.ProbeTimeout,
		PollDelay:    cfg.Upstream.PollDelay,
		RateLimitRPS: cfg.Upstream.RateLimitRPS,
		UserAgent:    cfg.Upstream.UserAgent,
		Limiter:      limiter,
		Diagnostics:  diagnostics,
	})
}

func makeTourEndpoint(store service.ConfigStore,
	provider tourprovider.TourProvider,
	redisClient *redis.Client,
	cfg *config.Config,
) endpoints.TourEndpoint {
	// cache
	tourCache := tour.NewTourCache(redisClient)

	// service
	tourService := service.NewTourService(store, provider, tourCache, service.TourServiceConfig{
		SearchMaxPolls:          cfg.Search.MaxPolls,
		SearchTargetResults:     cfg.Search.TargetResults,
		SearchCacheExpiration:   cfg.Search.CacheExpiration,
		HotToursMaxPolls:        cfg.HotTours.MaxPolls,
		HotToursTargetResults:   cfg.HotTours.TargetResults,
		HotToursLimit:           cfg.HotTours.Limit,
		HotToursCacheExpiration: cfg.HotTours.CacheExpiration,
		CacheLockTimeout:        cfg.Search.CacheLockTimeout,
	})

	// endpoint
	return endpoints.MakeTourEndpoint(tourService)
}

func makeAdminEndpoint(store service.ConfigStore,
	provider tourprovider.TourProvider,
	diagnostics service.LastRequester,
) endpoints.AdminEndpoint {
	adminService := service.NewAdminService(store, provider, diagnostics)

	return endpoints.MakeAdminEndpoint(adminService)
}
