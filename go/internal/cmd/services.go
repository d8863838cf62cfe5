package main

import (
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hypehammer/auctioncore/go/internal/auction"
	auctionclock "github.com/hypehammer/auctioncore/go/internal/auction/clock"
	"github.com/hypehammer/auctioncore/go/internal/notify"
	"github.com/hypehammer/auctioncore/go/internal/store"
)

// Services holds the wired auction engine and its collaborators.
type Services struct {
	Store    store.Store
	Notifier notify.Notifier
	Engine   *auction.App
	Clocks   *auctionclock.Registry

	closers []io.Closer
}

func setupServices(config *Config) (*Services, error) {
	// Wiring chain: store → repository → engine → countdown registry.
	services := &Services{}

	st, err := setupStore(config, services)
	if err != nil {
		return nil, err
	}
	notifier, err := setupNotifier(config, services)
	if err != nil {
		return nil, err
	}

	wallClock := clockwork.NewRealClock()
	repo := auction.NewRepository(st)
	engine := auction.NewApp(repo, notifier, wallClock)

	clocks := auctionclock.NewRegistry(repo, engine, notifier, wallClock, auctionclock.Config{
		TickInterval:    config.TickInterval(),
		MaxReadFailures: config.Clock.MaxReadFailures,
	})
	engine.SetClockControl(clocks)

	services.Store = st
	services.Notifier = notifier
	services.Engine = engine
	services.Clocks = clocks
	return services, nil
}

func setupStore(config *Config, services *Services) (store.Store, error) {
	switch config.Store.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.Store.Redis.Addr,
			Password: config.Store.Redis.Password,
			DB:       config.Store.Redis.DB,
		})
		services.closers = append(services.closers, client)
		log.Info().Str("addr", config.Store.Redis.Addr).Msg("using redis store")
		return store.NewRedisStore(client, config.Store.KeyPrefix), nil
	case "memory":
		log.Info().Msg("using in-memory store")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}
}

func setupNotifier(config *Config, services *Services) (notify.Notifier, error) {
	switch config.Notifier.Backend {
	case "nats":
		natsConfig := notify.DefaultNATSConfig()
		if config.Notifier.URL != "" {
			natsConfig.URL = config.Notifier.URL
		}
		if config.Notifier.SubjectPrefix != "" {
			natsConfig.SubjectPrefix = config.Notifier.SubjectPrefix
		}
		notifier, err := notify.NewNATSNotifier(natsConfig)
		if err != nil {
			return nil, fmt.Errorf("setup NATS notifier: %w", err)
		}
		services.closers = append(services.closers, notifier)
		log.Info().Str("url", natsConfig.URL).Msg("using NATS notifier")
		return notifier, nil
	case "memory":
		log.Info().Msg("using in-memory notifier")
		return notify.NewMemoryNotifier(), nil
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", config.Notifier.Backend)
	}
}

// Close shuts down the countdown tasks and external connections.
func (s *Services) Close() {
	if s.Clocks != nil {
		s.Clocks.Shutdown()
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close service")
		}
	}
}
