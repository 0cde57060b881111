// Package database opens the sqlite parcel registry and migrates its schema.
package database

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otedola/cadastral/config"
	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels(conn *gorm.DB) error {
	models := []any{
		&model.Parcel{},
		&model.User{},
	}
	for _, m := range models {
		if err := conn.AutoMigrate(m); err != nil {
			logger.Warningf("auto migrating %T: %v", m, err)
			return err
		}
	}
	return nil
}

// OpenDB opens (creating if needed) the sqlite file at dbPath and migrates it.
// The returned handle is what services receive; InitDB additionally keeps it
// as the process-wide default for the CLI.
func OpenDB(dbPath string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), fs.ModePerm); err != nil {
		return nil, err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	conn, err := gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA cache_size = -16000;",
		"PRAGMA temp_store = MEMORY;",
		"PRAGMA foreign_keys = ON;",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return nil, err
		}
	}

	if err := initModels(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func InitDB(dbPath string) error {
	conn, err := OpenDB(dbPath)
	if err != nil {
		return err
	}
	db = conn
	return nil
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	err := Close(db)
	db = nil
	return err
}

// Close checkpoints the WAL and closes conn.
func Close(conn *gorm.DB) error {
	if err := Checkpoint(conn); err != nil {
		logger.Warningf("error executing checkpoint: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func Checkpoint(conn *gorm.DB) error {
	return conn.Exec("PRAGMA wal_checkpoint;").Error
}
