package database

import (
	"fmt"
	"regexp"

	"fiber-erp/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// EnsureDatabaseExists creates DB_NAME on the server when it is missing.
// SQLite creates its file on open, so there is nothing to do for it.
func EnsureDatabaseExists() error {
	if config.DBDriver == "sqlite" {
		return nil
	}
	if !dbNamePattern.MatchString(config.DBName) {
		return fmt.Errorf("invalid DB_NAME %q", config.DBName)
	}

	dialector, err := serverDialector(config.DBDriver)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return fmt.Errorf("connect to %s server: %w", config.DBDriver, err)
	}
	defer Close(db)

	exists, err := databaseExists(db, config.DBDriver, config.DBName)
	if err != nil {
		return fmt.Errorf("check database %s: %w", config.DBName, err)
	}
	if exists {
		return nil
	}
	if err := db.Exec("CREATE DATABASE " + config.DBName).Error; err != nil {
		return fmt.Errorf("create database %s: %w", config.DBName, err)
	}
	return nil
}

// serverDialector connects to the server's maintenance database rather than DB_NAME.
func serverDialector(driver string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBPort)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=UTC",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		return mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=master",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func databaseExists(db *gorm.DB, driver, name string) (bool, error) {
	var count int64
	var err error
	switch driver {
	case "postgres":
		err = db.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", name).Scan(&count).Error
	case "mysql":
		err = db.Raw("SELECT COUNT(*) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", name).Scan(&count).Error
	case "mssql":
		err = db.Raw("SELECT COUNT(*) FROM master.sys.databases WHERE name = ?", name).Scan(&count).Error
	default:
		return false, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return count > 0, err
}
