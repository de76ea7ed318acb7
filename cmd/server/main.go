package main

import (
	"astrogation-service/internal/adapters/cache"
	"astrogation-service/internal/adapters/repositories"
	"astrogation-service/internal/adapters/systems"
	"astrogation-service/internal/api"
	"astrogation-service/internal/config"
	"astrogation-service/internal/domain"
	"astrogation-service/internal/platform/db"
	"astrogation-service/internal/ports"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, sector cache, Traveller Map) behind ports
// and starts the HTTP server.
func main() {
	cfg := config.Load()

	sqliteDB, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed ships and campaigns on startup for local runs.
	if err := initAndSeed(sqliteDB, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	sectorCache, closeCache, err := openSectorCache(context.Background(), cfg, sqliteDB)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	var overrides map[string]domain.SectorOffset
	if cfg.SectorOffsetsPath != "" {
		overrides, err = systems.LoadSectorOffsets(cfg.SectorOffsetsPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Loaded sector offsets count=%d path=%s", len(overrides), cfg.SectorOffsetsPath)
	}

	source, err := systems.NewTravellerMapSource(cfg.TravellerMapURL, cfg.HTTPTimeout, sectorCache, overrides)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteRouteRepository(sqliteDB)
	router := api.NewRouter(repo, source)

	// Timeouts are tuned for cold-cache optimization (several sector downloads).
	log.Printf("Server listening addr=:%s cache=%s", cfg.Port, cfg.CacheBackend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// openSectorCache selects the sector cache backend named by CACHE_BACKEND.
// The returned func releases any connection the backend opened.
func openSectorCache(ctx context.Context, cfg config.Config, sqliteDB *sql.DB) (ports.SectorCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.CacheSqlite:
		return cache.NewSqliteSectorCache(sqliteDB, cfg.CacheTTL), noop, nil

	case config.CachePostgres:
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("open sector cache: DATABASE_URL is required for the postgres backend")
		}
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open sector cache: %w", err)
		}
		if err := cache.InitSQLSchema(ctx, pg); err != nil {
			pg.Close()
			return nil, noop, fmt.Errorf("open sector cache: %w", err)
		}
		return cache.NewSQLSectorCache(pg, cfg.CacheTTL), func() { pg.Close() }, nil

	case config.CacheRedis:
		if cfg.RedisURL == "" {
			return nil, noop, fmt.Errorf("open sector cache: REDIS_URL is required for the redis backend")
		}
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open sector cache: parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("open sector cache: ping redis: %w", err)
		}
		return cache.NewRedisSectorCache(client, cfg.CacheTTL), func() { client.Close() }, nil

	case config.CacheNone:
		return nil, noop, nil
	}

	return nil, noop, fmt.Errorf("open sector cache: unknown CACHE_BACKEND %q", cfg.CacheBackend)
}
