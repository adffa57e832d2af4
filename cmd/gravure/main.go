package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/cache"
	"github.com/silver1953366/gravure-frontend/internal/config"
	"github.com/silver1953366/gravure-frontend/internal/events"
	"github.com/silver1953366/gravure-frontend/internal/http/handlers"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/repos"
	"github.com/silver1953366/gravure-frontend/internal/secure"
)

const (
	sessionMaxIdle = 30 * 24 * time.Hour
	janitorEvery   = time.Hour
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			log.SetOutput(out)
		}
	}
	logger := applog.Setup(cfg.LogLevel, out)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	sealer, err := secure.NewSealer(cfg.SessionSecret)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog cache: Redis when configured and reachable, sqlite otherwise.
	var catalogCache cache.Cache = repos.NewCacheRepo(db)
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pctx); err != nil {
			logger.Warn("cache.redis_unreachable", "addr", cfg.RedisAddr, "err", err)
			_ = rdb.Close()
		} else {
			catalogCache = rdb
			defer rdb.Close()
		}
		cancel()
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		k := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = k
		defer k.Close()
	}

	sessions := repos.NewSessionRepo(db)
	deps := handlers.NewDeps(handlers.Infra{
		API:        apiclient.New(cfg.APIBaseURL, cfg.APITimeout),
		Sessions:   sessions,
		Sealer:     sealer,
		Cache:      catalogCache,
		Journal:    repos.NewJournalRepo(db),
		Events:     publisher,
		CatalogTTL: cfg.CatalogTTL,
	}, cfg.CookieSecure)

	opts := handlers.DefaultOptions(handlers.NewViews("./web/templates", true))
	opts.CookieSecure = cfg.CookieSecure
	app := handlers.NewApp(deps, opts)

	go janitor(ctx, sessions, repos.NewCacheRepo(db))

	go func() {
		<-ctx.Done()
		logger.Info("server.shutdown")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server.shutdown_failed", "err", err)
		}
	}()

	logger.Info("server.start", "port", cfg.Port, "api", cfg.APIBaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// janitor drops idle sessions and expired cache rows until ctx ends.
func janitor(ctx context.Context, sessions *repos.SessionRepo, kv *repos.CacheRepo) {
	t := time.NewTicker(janitorEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := sessions.DeleteIdle(ctx, sessionMaxIdle)
			if err != nil {
				applog.L().Error("janitor.sessions", "err", err)
			} else if n > 0 {
				applog.L().Info("janitor.sessions", "deleted", n)
			}
			if err := kv.Purge(ctx); err != nil {
				applog.L().Error("janitor.cache", "err", err)
			}
		}
	}
}
