// Command iss-fetch downloads and parses the ephemeris feed once and prints a
// summary, exiting non-zero if the feed cannot be used.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/mr1hm/iss-tracker/internal/config"
	"github.com/mr1hm/iss-tracker/internal/geometry"
	"github.com/mr1hm/iss-tracker/internal/ingestion"
	"github.com/mr1hm/iss-tracker/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	url := flag.String("url", cfg.Ephemeris.URL, "ephemeris feed URL")
	flag.Parse()

	logging.Setup(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ephemeris.FetchTimeout)
	defer cancel()

	res := ingestion.Load(ctx, ingestion.NewHTTPSource(*url, cfg.Ephemeris.FetchTimeout))
	if !res.OK() {
		logging.Fatalf("ephemeris %s: %v", res.Outcome, res.Err)
	}

	store := res.Store()
	doc := store.Document()
	first, last := doc.States[0], doc.States[len(doc.States)-1]

	fmt.Printf("object:   %v\n", doc.Metadata["OBJECT_NAME"])
	fmt.Printf("frame:    %v\n", doc.Metadata["REF_FRAME"])
	fmt.Printf("states:   %d\n", store.Len())
	fmt.Printf("comments: %d\n", len(doc.Comments))
	fmt.Printf("coverage: %s .. %s\n", first.Timestamp, last.Timestamp)

	if nearest, err := store.FindNearest(res.LoadedAt); err == nil {
		fmt.Printf("nearest:  %s (%.3f km/s)\n", nearest.Timestamp, geometry.Speed(nearest.Velocity))
	}

	slog.Debug("fetch complete", "url", *url)
}
