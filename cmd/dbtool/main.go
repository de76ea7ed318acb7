package main

import (
	"astrogation-service/internal/adapters/cache"
	"astrogation-service/internal/adapters/systems"
	"astrogation-service/internal/config"
	"astrogation-service/internal/platform/db"
	"astrogation-service/internal/services"
	"context"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// dbtool prepares the shared Postgres sector cache and optionally warms it
// with the sectors listed in WARM_SECTORS.
func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	ctx := context.Background()

	log.Println("Initializing cache schema...")
	if err := cache.InitSQLSchema(ctx, pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if len(cfg.WarmSectors) == 0 {
		return
	}

	source, err := systems.NewTravellerMapSource(cfg.TravellerMapURL, cfg.HTTPTimeout, cache.NewSQLSectorCache(pg, cfg.CacheTTL), nil)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Warming sector cache sectors=%q", cfg.WarmSectors)
	galaxy, err := services.LoadGalaxy(ctx, source, cfg.WarmSectors)
	if err != nil {
		log.Fatalf("warming failed: %v", err)
	}
	log.Printf("Warming complete. systems=%d", len(galaxy.Keys))
}
