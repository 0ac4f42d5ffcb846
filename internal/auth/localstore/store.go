package localstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	platformerrors "storefront-go/internal/platform/errors"
)

// ErrNotFound is returned by Get when a key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

// Store is the browser-localStorage analog: a small keyed blob store holding
// the identity provider's serialized token cache and the demo-account marker.
// Values are JSON documents. Clearing the store fully signs the user out on the
// next load.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}

// Driver identifiers supported by the factory.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config describes the store selection parameters.
type Config struct {
	Driver string
	File   *FileConfig
	Redis  *RedisConfig
	SQLite *SQLiteConfig
}

// FileConfig locates the JSON file used by the file driver.
type FileConfig struct {
	Path string
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// SQLiteConfig provides the database dependency.
type SQLiteConfig struct {
	DSN string
}

// Dependencies captures external handles required by certain drivers.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New creates a local store based on the provided configuration.
func New(cfg Config, deps Dependencies) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg)
	case DriverRedis:
		return NewRedis(cfg)
	case DriverSQLite:
		if deps.SQLiteDB == nil {
			return nil, platformerrors.New(platformerrors.KindStorage, "localstore.new", "sqlite driver requires database handle")
		}
		return NewSQLite(deps.SQLiteDB)
	default:
		return nil, platformerrors.New(platformerrors.KindStorage, "localstore.new", "unsupported local store driver: "+driver)
	}
}
