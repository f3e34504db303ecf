package database

import (
	"github.com/amoylab/hireloop/internal/common/config"

	"gorm.io/driver/mysql"
)

// NewMySQL opens a MySQL backed store
func NewMySQL(cfg *config.DatabaseConfig) (Database, error) {
	return openStore(mysql.Open(cfg.GetDSN()))
}
