package db

import (
	"fmt"
	"os"

	"devmon.xyz/device-inventory-service/pkg/common"
	"devmon.xyz/device-inventory-service/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type DB struct {
	Conn *gorm.DB
}

// Open connects, migrates and returns a handle. Callers own the handle and
// are expected to Close it after stopping anything that writes through it.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	instance := &DB{Conn: conn}

	err = instance.Conn.AutoMigrate(
		&models.Site{},
		&models.DeviceType{},
		&models.Metric{},
		&models.Device{},
		&models.Measurement{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	if err := instance.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable sqlite foreign key support: %w", err)
	}

	if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to set sqlite journal mode: %w", err)
	}

	return instance, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeyInventoryDbPath); !found {
		dbPath = "inventory.db"
	}
	// _fk applies per connection, so it has to ride in the DSN: the pool
	// would otherwise hand out connections without cascade support
	return sqlite.Open(dbPath + "?_fk=1")
}

// UseMemorySqliteDialector names each in-memory database uniquely so two
// opened handles (e.g. two tests) never share state, while cache=shared keeps
// the pooled connections of one handle on the same database.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString()))
}
