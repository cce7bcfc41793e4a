package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/window-configurator/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps entries in the config_entries table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) Save(ctx context.Context, key string, value []byte) error {
	entry := models.ConfigEntry{Key: key, Value: string(value)}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context, key string) ([]byte, error) {
	var entry models.ConfigEntry
	if err := s.DB.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (s *GormStore) Clear(ctx context.Context, key string) error {
	if err := s.DB.WithContext(ctx).Where("entry_key = ?", key).Delete(&models.ConfigEntry{}).Error; err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}
