package postgres

import (
	"fmt"

	"github.com/serp-db/serp-backend/config"
)

// DSN prefers DB_DSN and otherwise assembles a keyword/value string from the parts.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
