package localstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type entry struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "local_store"
}

type sqliteStore struct {
	db *gorm.DB
}

// NewSQLite builds a store on top of an existing gorm handle. Stored values
// must be JSON documents, which both the provider token cache and the demo
// marker are.
func NewSQLite(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec entry
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	rec := entry{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&entry{}, "key = ?", key).Error
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&entry{}).Error
}

func (s *sqliteStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
