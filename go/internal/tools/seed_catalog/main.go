// Command seed_catalog loads lots and bidder accounts from a JSON file
// into the document store, so an event can be initialized against a
// pre-built catalog.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/store"
)

type catalog struct {
	Lots []struct {
		ID        *uuid.UUID      `json:"id"`
		Name      string          `json:"name"`
		BasePrice decimal.Decimal `json:"base_price"`
	} `json:"lots"`
	Bidders []struct {
		ID     *uuid.UUID      `json:"id"`
		Name   string          `json:"name"`
		Budget decimal.Decimal `json:"budget"`
	} `json:"bidders"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	path := "catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to read catalog file")
	}
	var cat catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		log.Fatal().Err(err).Msg("failed to parse catalog file")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer client.Close()

	st := store.NewRedisStore(client, envOr("STORE_KEY_PREFIX", "auction:"))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, l := range cat.Lots {
		lot := models.Lot{
			ID:        orNewID(l.ID),
			Name:      l.Name,
			BasePrice: l.BasePrice,
			Status:    models.LotStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.Set(ctx, store.CollectionLots, lot.ID.String(), lot); err != nil {
			log.Fatal().Err(err).Str("name", lot.Name).Msg("failed to seed lot")
		}
		log.Info().Str("id", lot.ID.String()).Str("name", lot.Name).Msg("seeded lot")
	}

	for _, b := range cat.Bidders {
		bidder := models.BidderAccount{
			ID:              orNewID(b.ID),
			Name:            b.Name,
			TotalBudget:     b.Budget,
			RemainingBudget: b.Budget,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := st.Set(ctx, store.CollectionBidders, bidder.ID.String(), bidder); err != nil {
			log.Fatal().Err(err).Str("name", bidder.Name).Msg("failed to seed bidder")
		}
		log.Info().Str("id", bidder.ID.String()).Str("name", bidder.Name).Msg("seeded bidder")
	}

	log.Info().
		Int("lots", len(cat.Lots)).
		Int("bidders", len(cat.Bidders)).
		Msg("catalog seeded")
}

func orNewID(id *uuid.UUID) uuid.UUID {
	if id != nil {
		return *id
	}
	return uuid.New()
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
