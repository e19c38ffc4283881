// Package main runs the Mercenary character terminal: a Telnet server that
// generates characters, fires the sidearm on the range, and saves finished
// sheets to the configured storage backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/config"
	"github.com/cory-johannsen/spacegothic/internal/frontend/handlers"
	"github.com/cory-johannsen/spacegothic/internal/frontend/telnet"
	"github.com/cory-johannsen/spacegothic/internal/game/character"
	"github.com/cory-johannsen/spacegothic/internal/game/combat"
	"github.com/cory-johannsen/spacegothic/internal/game/command"
	"github.com/cory-johannsen/spacegothic/internal/game/dice"
	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
	"github.com/cory-johannsen/spacegothic/internal/game/session"
	"github.com/cory-johannsen/spacegothic/internal/observability"
	"github.com/cory-johannsen/spacegothic/internal/server"
	"github.com/cory-johannsen/spacegothic/internal/storage/postgres"
	sheetredis "github.com/cory-johannsen/spacegothic/internal/storage/redis"
)

const healthInterval = 30 * time.Second

func main() {
	start := time.Now()
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "charserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	weapon, err := loadWeapon(cfg.Rules.WeaponFile)
	if err != nil {
		logger.Fatal("loading weapon", zap.Error(err))
	}
	roller := dice.NewLoggedRoller(newSource(cfg.Rules.Seed), logger.Named("dice"))
	manager := session.NewManager(
		session.Rules{RerollLimit: cfg.Rules.RerollLimit, Weapon: weapon},
		character.NewEngine(roller, logger.Named("character")),
		combat.NewResolver(roller, logger.Named("combat")),
		logger.Named("session"),
	)

	store, closeStore, err := openStore(ctx, cfg, lifecycle, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closeStore()

	terminal := handlers.NewTerminal(manager, store, command.DefaultRegistry(), logger.Named("terminal"))
	acceptor := telnet.NewAcceptor(cfg.Telnet, terminal, logger.Named("telnet"))
	lifecycle.Add("telnet", server.ServiceFunc(acceptor.Serve))

	logger.Info("charserver initialized",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("weapon", weapon.Name),
		zap.Int("reroll_limit", cfg.Rules.RerollLimit),
		zap.Bool("seeded", cfg.Rules.Seed != 0),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}

// newSource returns a reproducible source for a non-zero seed and crypto
// randomness otherwise.
func newSource(seed uint64) dice.Source {
	if seed != 0 {
		return dice.NewSeededSource(seed)
	}
	return dice.NewCryptoSource()
}

// loadWeapon loads the profile at path, or the built-in sidearm when path is empty.
func loadWeapon(path string) (*inventory.WeaponProfile, error) {
	if path == "" {
		return inventory.DefaultWeapon(), nil
	}
	return inventory.LoadWeapon(path)
}

// openStore connects the configured sheet backend and registers its health
// check. A nil store means saving is disabled.
func openStore(ctx context.Context, cfg config.Config, lc *server.Lifecycle, logger *zap.Logger) (session.SheetStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		version, dirty, err := pool.SchemaVersion(ctx)
		if err != nil || dirty {
			pool.Close()
			if err == nil {
				err = fmt.Errorf("schema version %d is dirty", version)
			}
			return nil, nil, err
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Int64("schema_version", version),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		lc.Add("postgres-health", server.Every(healthInterval, func(ctx context.Context) error {
			return pool.Health(ctx, 5*time.Second)
		}, logger))
		return postgres.NewSheetRepository(pool.DB()), pool.Close, nil

	case config.BackendRedis:
		client := goredis.NewUniversalClient(&goredis.UniversalOptions{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}
		logger.Info("redis connected", zap.Strings("addrs", cfg.Redis.Addrs))
		lc.Add("redis-health", server.Every(healthInterval, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}, logger))
		repo := sheetredis.NewSheetRepository(client, sheetredis.Options{TTL: cfg.Redis.TTL}, logger.Named("redis"))
		return repo, func() { _ = client.Close() }, nil

	default:
		logger.Info("storage disabled; the save command is unavailable")
		return nil, func() {}, nil
	}
}
