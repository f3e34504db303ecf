package database

import (
	"fmt"

	"github.com/amoylab/hireloop/internal/common/config"

	"github.com/glebarez/sqlite"
)

// NewSQLite opens a SQLite backed store. DBName is a file path or ":memory:".
func NewSQLite(cfg *config.DatabaseConfig) (Database, error) {
	s, err := openStore(sqlite.Open(cfg.GetDSN()))
	if err != nil {
		return nil, err
	}
	// every pooled connection would get its own empty in-memory database
	if cfg.DBName == ":memory:" {
		sqlDB, err := s.db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return s, nil
}
