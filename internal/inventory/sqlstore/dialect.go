package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect carries the driver specific bits of SQL text the store renders.
type Dialect struct {
	Driver string
}

func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "pgx", "postgres":
		return Dialect{Driver: "pgx"}, nil
	case "duckdb":
		return Dialect{Driver: "duckdb"}, nil
	case "sqlite":
		return Dialect{Driver: "sqlite"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// Placeholder returns the bind marker for the n-th argument, starting at 1.
func (d Dialect) Placeholder(n int) string {
	if d.Driver == "sqlite" {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

func (d Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
