package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// collectionRecord is one serialized collection.
type collectionRecord struct {
	Key       string    `gorm:"column:collection_key;primaryKey;size:191"`
	Value     string    `gorm:"column:value;type:longtext;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (collectionRecord) TableName() string { return "collection_records" }

// GormBackend stores collections in a SQL table through gorm.
type GormBackend struct {
	db *gorm.DB
}

// OpenMySQL connects to MySQL and migrates the collection table.
func OpenMySQL(dsn string) (*GormBackend, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open mysql: %w", err)
	}
	if err := db.AutoMigrate(&collectionRecord{}); err != nil {
		return nil, fmt.Errorf("storage: migrate collection_records: %w", err)
	}
	return NewGormBackend(db), nil
}

// NewGormBackend wraps an opened gorm handle. The table must already exist.
func NewGormBackend(db *gorm.DB) *GormBackend {
	if db == nil {
		panic("storage: gorm db required")
	}
	return &GormBackend{db: db}
}

func (g *GormBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var rec collectionRecord
	err := g.db.WithContext(ctx).Where("collection_key = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

func (g *GormBackend) Set(ctx context.Context, key string, value []byte) error {
	rec := collectionRecord{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", key, err)
	}
	return nil
}

func (g *GormBackend) Delete(ctx context.Context, key string) error {
	err := g.db.WithContext(ctx).Where("collection_key = ?", key).Delete(&collectionRecord{}).Error
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (g *GormBackend) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
