package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kvEntry struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:longtext"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// Gorm stores entries in a shared SQL database, one row per key.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvEntry
	err := g.db.WithContext(ctx).Where("`key` = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (g *Gorm) Set(ctx context.Context, key, value string) error {
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&kvEntry{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Where("`key` = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
