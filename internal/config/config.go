package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends selectable through CACHE_BACKEND.
const (
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
	CacheNone     = "none"
)

type Config struct {
	Port              string
	DBPath            string
	DatabaseURL       string
	SeedPath          string
	TravellerMapURL   string
	SectorOffsetsPath string
	RedisURL          string
	CacheBackend      string
	CacheTTL          time.Duration
	HTTPTimeout       time.Duration
	WarmSectors       []string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("invalid duration %s=%q, using %s", key, raw, fallback)
	return fallback
}

func getList(key string) []string {
	raw := Get(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads a .env file when present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:              Get("PORT", "8080"),
		DBPath:            Get("DB_PATH", "data/app.db"),
		DatabaseURL:       Get("DATABASE_URL", ""),
		SeedPath:          Get("SEED_PATH", "data/seeds/fleet.json"),
		TravellerMapURL:   Get("TRAVELLERMAP_URL", "https://travellermap.com"),
		SectorOffsetsPath: Get("SECTOR_OFFSETS_PATH", ""),
		RedisURL:          Get("REDIS_URL", ""),
		CacheBackend:      strings.ToLower(Get("CACHE_BACKEND", CacheSqlite)),
		CacheTTL:          getDuration("CACHE_TTL", 7*24*time.Hour),
		HTTPTimeout:       getDuration("HTTP_TIMEOUT", 10*time.Second),
		WarmSectors:       getList("WARM_SECTORS"),
	}
}
