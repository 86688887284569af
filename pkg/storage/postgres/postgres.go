// Package postgres is a storage.Medium backed by a PostgreSQL table through
// gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/forestline/eudrtrack/pkg/storage"
)

// Entry is one stored value.
type Entry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "storage_entries" }

type Medium struct {
	db *gorm.DB
}

var _ storage.Medium = (*Medium)(nil)

// Open connects to the database at dsn and creates the entries table.
func Open(dsn string) (*Medium, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	m := New(db)
	if err := m.Migrate(); err != nil {
		return nil, err
	}
	return m, nil
}

// New wraps an existing connection. The table is not created.
func New(db *gorm.DB) *Medium {
	return &Medium{db: db}
}

// Migrate creates or updates the entries table.
func (m *Medium) Migrate() error {
	if err := m.db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate storage entries: %w", err)
	}
	return nil
}

func (m *Medium) Get(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := m.db.WithContext(ctx).Where("key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return e.Value, nil
}

func (m *Medium) Set(ctx context.Context, key string, value []byte) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (m *Medium) Delete(ctx context.Context, key string) error {
	if err := m.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (m *Medium) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
