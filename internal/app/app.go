package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/httpserver"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/redis"
	"github.com/MrSnakeDoc/folio/internal/scheduler"
	"github.com/MrSnakeDoc/folio/internal/session"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
	"github.com/MrSnakeDoc/folio/internal/sources/site"
	redisstore "github.com/MrSnakeDoc/folio/internal/store/redis"
	"github.com/MrSnakeDoc/folio/internal/utils"
	"github.com/MrSnakeDoc/folio/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *session.Manager
	reloader    *scheduler.SiteReloader
	reaper      *scheduler.SessionReaper
}

// New wires every component from the environment.
func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	remote, err := sheetapi.NewClient(sheetapi.Options{
		URL:     cfg.RemoteURL,
		Timeout: cfg.RemoteTimeout,
		Logger:  loggerClient.With(logger.String("component", "sheetapi")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create remote client: %w", err)
	}

	redisClient, throttle, err := newThrottle(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	// the builtin site serves until the first load replaces it
	holder := site.NewHolder(site.Builtin())

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewSiteReloader(
		cfg.SiteFile,
		holder,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	sessions := session.NewManager(session.ManagerOptions{
		Site:        holder,
		Client:      remote,
		Throttle:    throttle,
		Zone:        cfg.Timezone,
		MaxSessions: cfg.MaxSessions,
		Logger:      loggerClient,
	})

	reaper := scheduler.NewSessionReaper(sessions.Registry, loggerClient, cfg.ReapInterval, cfg.SessionTTL)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		EventBurst:     cfg.EventBurst,
		EventsPerMin:   cfg.EventsPerMin,
		PageBurst:      cfg.PageBurst,
		PagesPerMin:    cfg.PagesPerMin,
		Sessions:       sessions,
		Remote:         remote,
		Site:           holder,
		SiteFile:       cfg.SiteFile,
		RedisClient:    redisClient,
		ReloadTrigger:  reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		sessions:    sessions,
		reloader:    reloader,
		reaper:      reaper,
	}, nil
}

// newThrottle picks the submission throttle: shared in Redis when configured, per instance otherwise.
func newThrottle(cfg *config.Config, log logger.Logger) (*goredis.Client, session.Throttle, error) {
	if cfg.SubmitLimit == 0 {
		log.Info("submission throttle disabled")
		if cfg.RedisAddr == "" {
			return nil, nil, nil
		}
	}

	if cfg.RedisAddr == "" {
		log.Info("redis not configured, submission throttle kept in memory",
			logger.Int("limit", cfg.SubmitLimit),
			logger.Duration("window", cfg.SubmitWindow))
		return nil, session.NewMemoryThrottle(cfg.SubmitLimit, cfg.SubmitWindow), nil
	}

	log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	client, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Redis initialized successfully")

	if cfg.SubmitLimit == 0 {
		return client, nil, nil
	}
	return client, redisstore.NewThrottle(redisstore.NewStore(client), cfg.SubmitLimit, cfg.SubmitWindow), nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Folio %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start site reloader: %w", err)
	}
	a.logger.Info("site reloader started",
		logger.String("file", a.cfg.SiteFile),
		logger.Duration("interval", a.cfg.ReloadInterval))

	a.reaper.Start(ctx)
	a.logger.Info("session reaper started",
		logger.Duration("interval", a.cfg.ReapInterval),
		logger.Duration("ttl", a.cfg.SessionTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.reloader.Stop()
	a.reaper.Stop()

	// open patch streams return once their session is closed
	a.sessions.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, a.logger, "redis")
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ Folio stopped cleanly")
	return nil
}
