package config

import (
	"fmt"
	"strings"

	"github.com/datatrail-labs/sqlcol/pkg/dialect"
	"github.com/datatrail-labs/sqlcol/pkg/extract"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dialect != "" {
		if _, ok := dialect.Get(c.Dialect); !ok {
			return fmt.Errorf("unknown dialect %q (known: %s)",
				c.Dialect, strings.Join(dialect.Names(), ", "))
		}
	}

	if p := extract.FallbackPolicy(c.UnqualifiedFallback); c.UnqualifiedFallback != "" && !p.Valid() {
		return fmt.Errorf("unknown unqualified_fallback %q (use %s or %s)",
			c.UnqualifiedFallback, extract.FallbackStrict, extract.FallbackFirstTable)
	}

	switch c.Output {
	case "", "auto", "table", "csv", "json":
	default:
		return fmt.Errorf("unknown output mode %q (use auto|table|csv|json)", c.Output)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
