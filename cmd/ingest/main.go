// Command ingest runs one search-and-persist cycle from the command
// line, for seeding or backfilling the catalog without the API server.
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"tunescout/internal/itunes"
	"tunescout/internal/media"
	"tunescout/pkg/database"
	"tunescout/pkg/logger"
	"tunescout/pkg/utils"
)

func main() {
	term := flag.String("term", "", "search term to ingest")
	flag.Parse()

	_ = godotenv.Load()
	cfg := utils.LoadServerConfig()
	if err := logger.Init(logger.Config{Output: "stdout", Level: cfg.LogLevel}); err != nil {
		panic(err)
	}

	if strings.TrimSpace(*term) == "" {
		zlog.Fatal().Msg("usage: ingest -term <query>")
	}
	query := strings.TrimSpace(*term)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zlog.Fatal().Err(err).Msg("db migrate failed")
	}

	client := itunes.NewClient(cfg.ITunesURL)
	raw, err := client.Search(ctx, query)
	if err != nil {
		zlog.Fatal().Err(err).Str("term", query).Msg("catalog search failed")
	}

	normalized := itunes.NormalizeAll(raw, query)
	zlog.Info().
		Str("term", query).
		Int("raw", len(raw)).
		Int("normalized", len(normalized)).
		Msg("fetched results")

	repo := media.NewRepo(db)
	stored, err := repo.UpsertAll(ctx, normalized)
	if err != nil {
		zlog.Fatal().Err(err).Msg("persist failed")
	}

	zlog.Info().Int("stored", len(stored)).Msg("catalog updated")
}
