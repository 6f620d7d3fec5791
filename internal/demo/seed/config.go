package seed

import (
	"fmt"
	"strconv"
	"strings"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	Seed        int64
	MaxPackages int
	SkipStock   bool
}

func DefaultConfig() Config {
	return Config{
		Seed:        1,
		MaxPackages: 4,
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if raw, ok := lookup("MEDSTOCK_SEED"); ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEDSTOCK_SEED: %w", err)
		}
		cfg.Seed = v
	}
	if raw, ok := lookup("MEDSTOCK_SEED_MAX_PACKAGES"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEDSTOCK_SEED_MAX_PACKAGES: %w", err)
		}
		cfg.MaxPackages = v
	}
	if raw, ok := lookup("MEDSTOCK_SEED_SKIP_STOCK"); ok {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEDSTOCK_SEED_SKIP_STOCK: %w", err)
		}
		cfg.SkipStock = v
	}

	if cfg.MaxPackages <= 0 {
		return Config{}, fmt.Errorf("MEDSTOCK_SEED_MAX_PACKAGES must be > 0")
	}
	return cfg, nil
}
