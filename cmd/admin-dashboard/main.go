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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vasiliy-maslov/ecommerce-admin/internal/apiclient"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/catalog"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/config"
	dashboardHttp "github.com/vasiliy-maslov/ecommerce-admin/internal/handler/http"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/session"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	envPath := flag.String("env", ".env", "path to a .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	setupLogger(cfg)
	log.Info().Msg("Admin dashboard starting...")
	log.Debug().
		Str("api_base_url", cfg.API.BaseURL).
		Str("session_store", cfg.Session.Store).
		Dur("poll_interval", cfg.Orders.PollInterval).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up session store")
	}
	defer closeStore()

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout)

	sessions := session.NewManager(store, client, session.Options{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	orderCache := order.NewCache()
	poller := order.NewPoller(client, orderCache, cfg.Orders.PollInterval)

	dashboard, err := dashboardHttp.NewDashboard(
		sessions,
		catalog.NewService(client),
		order.NewService(client, orderCache, poller),
		user.NewService(client),
		dashboardHttp.Options{
			Theme: dashboardHttp.Theme{
				BrandName:   cfg.Theme.BrandName,
				LogoURL:     cfg.Theme.LogoURL,
				AccentColor: cfg.Theme.AccentColor,
			},
			PollInterval: cfg.Orders.PollInterval,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build dashboard")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(dashboardHttp.RequestLogger)
	router.Use(middleware.Recoverer)

	dashboard.RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return poller.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Admin dashboard stopped with error")
	}

	log.Info().Msg("Admin dashboard stopped gracefully.")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.App.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", cfg.App.Name).Logger()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := session.NewRedisStore(client, cfg.Redis.Prefix, cfg.Session.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to redis session store")
	return store, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}, nil
}
