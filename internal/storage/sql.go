package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resumeSync/internal/database"
)

// SQLStore 将键值保存在 entries 表中，SQLite 与 PostgreSQL 共用同一实现。
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore 包装已打开的连接，并确保表结构存在。
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&database.Entry{}); err != nil {
		return nil, fmt.Errorf("auto migrate entries: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry database.Entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("query entry %q: %w", key, err)
	default:
		return entry.Value, true, nil
	}
}

// Set 以 upsert 方式整体覆盖旧值。
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	entry := database.Entry{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert entry %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&database.Entry{}).Error; err != nil {
		return fmt.Errorf("delete entry %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	return sqlDB.Close()
}
