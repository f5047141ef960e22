package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/thereayou/anonchat/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect открывает БД, применяет миграции и создаёт комнату global
func Connect(driver, dsn string, logLevel logger.LogLevel) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite сериализует запись; одно соединение убирает SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	d := &Database{db: db}
	if err := d.Migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) Migrate() error {
	err := d.db.AutoMigrate(
		&models.Identity{},
		&models.Session{},
		&models.Room{},
		&models.Message{},
		&models.Participation{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return d.seedGlobalRoom()
}

func (d *Database) seedGlobalRoom() error {
	room := models.Room{
		ID:              models.GlobalRoomID,
		Name:            models.GlobalRoomID,
		MaxParticipants: models.DefaultMaxParticipants,
	}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&room).Error
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
