package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (cfgFile, dbFile string) {
	t.Helper()
	dir := t.TempDir()
	dbFile = filepath.Join(dir, "data", "hireloop.db")
	cfgFile = filepath.Join(dir, "apiserver.yaml")
	content := `
port: 6001
database:
  type: sqlite
  dbname: ` + dbFile + `
logger:
  level: error
  output: stdout
jwt:
  secret_key: a-test-secret-that-is-long-enough-for-hs256
  duration: 1h
super_admin:
  emails: ["Root@Example.com"]
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))
	return cfgFile, dbFile
}

func TestSetup_LoadsConfig(t *testing.T) {
	cfgFile, _ := writeConfig(t)
	configPath = cfgFile
	t.Cleanup(func() { configPath = cnst.ApiServerYaml })

	cfg, lg, err := setup()
	require.NoError(t, err)
	require.NotNil(t, lg)
	assert.Equal(t, 6001, cfg.Port)
	assert.Equal(t, "X-Tenant", cfg.Scope.Header)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestMigrateAndTokenCommands(t *testing.T) {
	cfgFile, dbFile := writeConfig(t)
	t.Cleanup(func() { configPath = cnst.ApiServerYaml })

	rootCmd.SetArgs([]string{"migrate", "--conf", cfgFile})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: dbFile})
	require.NoError(t, err)
	user, err := db.GetUserByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, database.GlobalRoleSuperAdmin, user.GlobalRole)
	_, err = db.GetTenantBySlug(context.Background(), database.DefaultTenantSlug)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	rootCmd.SetArgs([]string{"token", "root@example.com", "--conf", cfgFile})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, rootCmd.Execute())
}
