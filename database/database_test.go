package database

import (
	"fiber-erp/config"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDialectorSupportsConfiguredDrivers(t *testing.T) {
	config.DBHost = "db"
	config.DBPort = "5432"
	config.DBUser = "erp"
	config.DBPassword = "secret"
	config.DBName = "erp"
	config.DBSqlitePath = "file::memory:"

	for _, driver := range []string{"postgres", "mysql", "mssql", "sqlite"} {
		d, err := Dialector(driver)
		require.NoError(t, err, driver)
		require.NotNil(t, d, driver)
	}

	_, err := Dialector("oracle")
	require.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestGormLogLevel(t *testing.T) {
	require.Equal(t, logger.Silent, gormLogLevel("silent"))
	require.Equal(t, logger.Info, gormLogLevel("info"))
	require.Equal(t, logger.Warn, gormLogLevel("anything"))
}

func TestOpenSqliteFile(t *testing.T) {
	config.DBDriver = "sqlite"
	config.DBSqlitePath = t.TempDir() + "/erp.db"
	config.DBLogLevel = "silent"
	config.DBMaxIdleConns = 1

	db, err := Open()
	require.NoError(t, err)
	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, Close(db))
}

func TestEnsureDatabaseExists(t *testing.T) {
	config.DBDriver = "sqlite"
	require.NoError(t, EnsureDatabaseExists())

	config.DBDriver = "postgres"
	config.DBName = "erp; DROP TABLE items"
	require.ErrorContains(t, EnsureDatabaseExists(), "invalid DB_NAME")

	for _, driver := range []string{"postgres", "mysql", "mssql"} {
		d, err := serverDialector(driver)
		require.NoError(t, err, driver)
		require.NotNil(t, d)
	}
	_, err := serverDialector("sqlite")
	require.Error(t, err)
}
