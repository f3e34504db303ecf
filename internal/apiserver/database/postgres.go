package database

import (
	"github.com/amoylab/hireloop/internal/common/config"

	"gorm.io/driver/postgres"
)

// NewPostgres opens a PostgreSQL backed store
func NewPostgres(cfg *config.DatabaseConfig) (Database, error) {
	return openStore(postgres.Open(cfg.GetDSN()))
}
