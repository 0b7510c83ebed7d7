package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aniladanir/campaign-messenger/internal/cache"
	redisCache "github.com/aniladanir/campaign-messenger/internal/cache/redis"
	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/aniladanir/campaign-messenger/internal/gateway"
	httpHandler "github.com/aniladanir/campaign-messenger/internal/handler/http"
	"github.com/aniladanir/campaign-messenger/internal/metrics"
	"github.com/aniladanir/campaign-messenger/internal/persistant/postgresql"
	conversationRepo "github.com/aniladanir/campaign-messenger/internal/repository/conversation"
	projectRepo "github.com/aniladanir/campaign-messenger/internal/repository/project"
	"github.com/aniladanir/campaign-messenger/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

var (
	configFile = flag.String("config", "config.json", "config file path")
)

func main() {
	// create root context
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	// listen for terminate signal
	notifyCtx, stop := signal.NotifyContext(appCtx, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// parse flags
	flag.Parse()

	// parse config
	config, err := ReadConfigJson(*configFile)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	// setup logger
	logger := newLogger(config)
	slog.SetDefault(logger)

	// initialize external dependencies
	db, rCache, err := initExternalDependencies(notifyCtx, config)
	if err != nil {
		log.Fatalf("failed to initialize external dependencies: %v", err)
	}

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// init repositories
	convRepo, err := conversationRepo.NewConversationRepository(
		db,
		logger.With(slog.String("component", "conversationStore")),
		m,
		&config.AppendMaxRetry,
	)
	if err != nil {
		log.Fatalf("failed to initiate conversation repository: %v", err)
	}
	projRepo := projectRepo.NewProjectRepository(db)

	// init send gateway
	smsGateway, err := gateway.NewTwilioGateway(gateway.TwilioConfig{
		BaseURL:    config.TwilioBaseURL,
		AccountSID: config.TwilioAccountSID,
		AuthToken:  config.TwilioAuthToken,
		FromNumber: config.TwilioFromNumber,
		Timeout:    config.ProviderTimeout,
	})
	if err != nil {
		log.Fatalf("failed to initiate send gateway: %v", err)
	}

	// init services
	var statsCache cache.Cache
	if rCache != nil {
		statsCache = rCache
	}
	statistics := service.NewStatisticsAggregator(
		convRepo,
		statsCache,
		config.StatsCacheTTL,
		config.DeliveredStatus,
		logger.With(slog.String("component", "statistics")),
	)
	dispatcher := service.NewDispatcher(
		projRepo,
		convRepo,
		smsGateway,
		logger.With(slog.String("component", "dispatcher")),
		m,
		config.DispatchConcurrency,
	)
	projects := service.NewProjectService(
		projRepo,
		convRepo,
		logger.With(slog.String("component", "projects")),
	)

	// init http handler
	httpHandler := httpHandler.NewHttpHandler(httpHandler.Options{
		Addr:       fmt.Sprintf(":%d", config.HttpPort),
		JWTSecret:  config.JWTSecret,
		Projects:   projects,
		Dispatcher: dispatcher,
		Statistics: statistics,
		Gatherer:   registry,
		Logger:     logger.With(slog.String("component", "http")),
	})

	wg := sync.WaitGroup{}
	// run http handler
	wg.Go(func() {
		logger.Info("http server listening", "port", config.HttpPort)
		if err := httpHandler.Run(); err != nil {
			logger.Error("http server encountered with an error and closed", "error", err.Error())
		}
		// cancel app context if http handler fails
		appCtxCancel()
	})

	// graceful shutdown
	wg.Go(func() {
		<-notifyCtx.Done()
		logger.Info("application shutting down...")

		shutDownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		if err := httpHandler.Shutdown(shutDownCtx); err != nil {
			logger.Error("failed to shut down http server", "error", err.Error())
		}
		if rCache != nil {
			_ = rCache.Close()
		}
		postgresql.Close(db)
	})

	wg.Wait()
	os.Exit(0)
}

func initExternalDependencies(ctx context.Context, config *Config) (db *gorm.DB, rCache *redisCache.RedisCache, err error) {
	// initialize database
	db, err = postgresql.Initialize(config.DbConnString, domain.Models())
	if err != nil {
		return
	}

	// cache is optional
	if config.RedisAddr == "" {
		return
	}
	rCache, err = redisCache.NewRedisCache(ctx, config.RedisAddr)

	return
}
