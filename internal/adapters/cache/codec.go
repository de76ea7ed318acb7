package cache

import (
	"astrogation-service/internal/domain"
	"encoding/json"
	"fmt"
	"time"
)

func encodeSystems(systems []domain.System) (string, error) {
	b, err := json.Marshal(systems)
	if err != nil {
		return "", fmt.Errorf("encode systems: %w", err)
	}
	return string(b), nil
}

func decodeSystems(raw string) ([]domain.System, error) {
	var systems []domain.System
	if err := json.Unmarshal([]byte(raw), &systems); err != nil {
		return nil, fmt.Errorf("decode systems: %w", err)
	}
	return systems, nil
}

// expired reports whether an entry fetched at fetchedAt is older than maxAge.
// A zero maxAge keeps entries forever.
func expired(fetchedAt time.Time, maxAge time.Duration, now time.Time) bool {
	return maxAge > 0 && now.Sub(fetchedAt) > maxAge
}
