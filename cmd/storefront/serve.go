package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	adapthttp "storefront/internal/adapter/http"
	"storefront/internal/adapter/memory"
	"storefront/internal/adapter/postgres"
	rediscache "storefront/internal/adapter/redis"
	"storefront/internal/app"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

type stores struct {
	users  domain.UserRepository
	items  domain.ItemRepository
	carts  domain.CartRepository
	orders domain.OrderRepository
	close  func() error
}

func openStores(cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		db := memory.New()
		return &stores{users: db, items: db, carts: db, orders: db, close: func() error { return nil }}, nil
	}

	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return &stores{users: db, items: db, carts: db, orders: db, close: db.Close}, nil
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Log.Environment, cfg.Log.Level, "storefront")
	defer func() { _ = log.Sync() }()

	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	var (
		itemCache domain.ItemCache
		limiter   adapthttp.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cache and login limiter will fail open", zap.Error(err))
		}
		itemCache = rediscache.NewItemCache(client, cfg.Redis.ItemCacheTTL.Std())
		limiter = rediscache.NewLoginLimiter(client, cfg.Redis.LoginAttempts, cfg.Redis.LoginWindow.Std())
	}

	tokens, err := auth.NewTokenCodec([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL.Std())
	if err != nil {
		return err
	}

	var oidcCfg *adapthttp.OIDCConfig
	if cfg.OIDC.Enabled() {
		oidcCfg, err = adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return fmt.Errorf("oidc: %w", err)
		}
		log.Info("SSO enabled", zap.String("issuer", cfg.OIDC.Issuer))
	}

	items := app.NewItemService(st.items, itemCache, log)
	h := adapthttp.New(adapthttp.Deps{
		Auth:           app.NewAuthService(st.users, st.carts, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, cfg.Auth.MinPasswordLength, log),
		Users:          app.NewUserService(st.users),
		Items:          items,
		Carts:          app.NewCartService(st.users, st.carts, items),
		Orders:         app.NewOrderService(st.users, st.carts, st.orders, log),
		Log:            log,
		LoginLimiter:   limiter,
		OIDC:           oidcCfg,
		RequestTimeout: cfg.Server.RequestTimeout.Std(),
	}).Handler()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func migrateOnly(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	return db.Close()
}
