package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"worklog/internal/config"
	"worklog/internal/db"
	"worklog/internal/http/middleware"
	"worklog/internal/http/router"
	"worklog/internal/http/views"
	"worklog/internal/redisstore"
	"worklog/internal/repository"
	"worklog/internal/security"
	"worklog/internal/service"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Production() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}

func main() {
	configPath := flag.String("config", "config/app.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if cfg.Seed.Enabled {
		n, err := database.SeedUsers(ctx, db.DefaultUsers, security.HashPassword)
		if err != nil {
			log.Fatalf("Failed to seed users: %v", err)
		}
		if n > 0 {
			log.WithField("count", n).Info("Seeded default users")
		}
	}

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Redis connected")
	}

	var sessions repository.SessionRepository = database
	if cfg.Session.Backend == config.SessionBackendRedis {
		sessions = redisstore.NewSessionStore(redisClient, cfg.Redis.KeyPrefix)
	}

	authService := service.NewAuthService(database, sessions, cfg.Session.TTL, log)
	entryService := service.NewEntryService(database, log)

	pages, err := views.New()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	cookies := security.NewCookieStore([]byte(cfg.Secret), security.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie,
		MaxAge: int(cfg.Session.TTL.Seconds()),
	})

	deps := router.Deps{
		Auth:    authService,
		Entries: entryService,
		Cookies: cookies,
		Views:   pages,
		DB:      database,
		Log:     log,
	}
	if cfg.RateLimit.Enabled {
		deps.LoginLimiter = middleware.RateLimit(redisClient, cfg.Redis.KeyPrefix,
			cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, log)
	}

	if cfg.Session.SweepInterval > 0 {
		go authService.RunSessionSweeper(ctx, cfg.Session.SweepInterval)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}
	log.Info("Server stopped")
}
