package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doingodswork/ertflix-jellyfin/pkg/catalog"
	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
	"github.com/doingodswork/ertflix-jellyfin/pkg/jellyfin"
)

func main() {
	// Only for config parsing, the actual logger depends on the config
	bootstrapLogger, err := newLogger("info", "console")
	if err != nil {
		panic(err)
	}
	bootstrapLogger.Info("Parsing config...")
	config := parseConfig(bootstrapLogger)
	if err = config.validate(); err != nil {
		bootstrapLogger.Fatal("Invalid config", zap.Error(err))
	}

	logger, err := newLogger(config.LogLevel, config.LogEncoding)
	if err != nil {
		bootstrapLogger.Fatal("Couldn't create logger", zap.Error(err))
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		logger.Fatal("Couldn't marshal config to JSON", zap.Error(err))
	}
	logger.Info("Parsed config", zap.ByteString("config", configJSON))

	// Result cache

	var resultCache catalog.Cache
	var rdb *redis.Client
	var goCacheStore *gocache.Cache
	if config.CacheAge > 0 {
		if config.RedisAddr != "" {
			username, password := config.redisCredentials()
			rdb = redis.NewClient(&redis.Options{
				Addr:     config.RedisAddr,
				Username: username,
				Password: password,
			})
			// Keep entries a bit longer than their max age so that expired entries are logged as such
			resultCache = &redisCache{rdb: rdb, expiration: 2 * config.CacheAge}
			logger.Info("Using Redis for the result cache", zap.String("redisAddr", config.RedisAddr))
		} else {
			goCacheStore = gocache.New(2*config.CacheAge, 2*config.CacheAge)
			resultCache = &goCache{cache: goCacheStore}
			logger.Info("Using go-cache for the result cache")
		}
	} else {
		logger.Info("Result cache is disabled")
	}

	// Create clients and services

	clientOpts := ertflix.ClientOptions{
		BaseURL:          config.BaseURLertflix,
		PlatformCodename: config.PlatformCodename,
		PageCodename:     config.PageCodename,
		PageLimit:        config.PageLimit,
		SectionLimit:     config.SectionLimit,
		Timeout:          config.Timeout,
		MaxRetries:       config.MaxRetries,
		RetryDelay:       config.RetryDelay,
		ExtraHeaders:     config.ExtraHeaders,
	}
	ertflixClient, err := ertflix.NewClient(clientOpts, logger.Named("ertflix"))
	if err != nil {
		logger.Fatal("Couldn't create ERTFLIX client", zap.Error(err))
	}
	serviceOpts := catalog.Options{
		MovieCodename:      config.MovieCodename,
		ShowCodename:       config.ShowCodename,
		DirectSectionFetch: config.DirectSectionFetch,
		TileBatchSize:      config.TileBatchSize,
		CacheAge:           config.CacheAge,
	}
	service, err := catalog.NewService(ertflixClient, serviceOpts, resultCache, logger.Named("catalog"))
	if err != nil {
		logger.Fatal("Couldn't create catalog service", zap.Error(err))
	}
	identity := jellyfin.Identity{
		ServerID:     config.ServerID,
		ServerName:   config.ServerName,
		LocalAddress: config.LocalAddress,
		UserName:     config.UserName,
	}

	app := newApp(service, identity, logger)

	addr := config.BindAddr + ":" + strconv.Itoa(config.Port)
	logger.Info("Starting server", zap.String("address", addr))
	stopping := false
	stoppingPtr := &stopping
	go func() {
		if err := app.Listen(addr); err != nil {
			if !*stoppingPtr {
				logger.Fatal("Couldn't start server", zap.Error(err))
			} else {
				logger.Fatal("Error in app.Listen() during server shutdown (probably context deadline expired before the server could shutdown cleanly)", zap.Error(err))
			}
		}
	}()

	// Print cache stats every hour
	if goCacheStore != nil {
		go func() {
			for {
				time.Sleep(time.Hour)
				logger.Info("Cache stats", zap.String("cache", "result"), zap.Int("itemCount", goCacheStore.ItemCount()))
			}
		}()
	}

	// Graceful shutdown

	c := make(chan os.Signal, 1)
	// Accept SIGINT (Ctrl+C) and SIGTERM (`docker stop`)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	logger.Info("Received signal, shutting down server...", zap.Stringer("signal", sig))
	*stoppingPtr = true
	// `docker stop` gives us 10 seconds.
	err = app.ShutdownWithTimeout(9 * time.Second)
	if rdb != nil {
		err = multierr.Append(err, rdb.Close())
	}
	if err != nil {
		logger.Error("Error shutting down server", zap.Error(err))
	}
	logger.Info("Server shut down")
	// Syncing stdout/stderr fails on some platforms, which isn't worth an error
	_ = logger.Sync()
}

func newApp(service *catalog.Service, identity jellyfin.Identity, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Basic middleware and health endpoint

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(createLoggingMiddleware(logger))

	app.Get("/health", healthHandler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Content endpoints

	app.Get("/movies", createMoviesHandler(service, logger))
	app.Get("/tv", createTVShowsHandler(service, logger))

	// Jellyfin endpoints

	app.Get("/System/Info/Public", createSystemInfoHandler(identity))
	app.Post("/Users/AuthenticateByName", createAuthHandler(identity, logger))
	userViewsHandler := createUserViewsHandler(service, identity, logger)
	app.Get("/UserViews", userViewsHandler)
	app.Get("/Users/:userId/Views", userViewsHandler)
	itemsHandler := createItemsHandler(service, identity, logger)
	app.Get("/Items", itemsHandler)
	app.Get("/Users/:userId/Items", itemsHandler)

	return app
}

func newLogger(level, encoding string) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(logLevel)
	logConfig.Encoding = encoding
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.Sampling = nil
	if encoding == "console" {
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return logConfig.Build()
}
