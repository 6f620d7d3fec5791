package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/medstock/medstock/internal/cli/medstockctl"
)

func main() {
	timeout := parseDurationWithDefault(strings.TrimSpace(os.Getenv("MEDSTOCK_CLI_TIMEOUT")), 60*time.Second)
	options := medstockctl.Options{
		BaseURL: envOr("MEDSTOCK_API_URL", "http://localhost:5000"),
		APIKey:  strings.TrimSpace(os.Getenv("MEDSTOCK_API_KEY")),
		Timeout: timeout,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	code := medstockctl.Run(context.Background(), os.Args[1:], options)
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseDurationWithDefault(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid MEDSTOCK_CLI_TIMEOUT %q; using %s\n", raw, fallback)
		return fallback
	}
	return parsed
}
