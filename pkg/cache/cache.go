package cache

import (
	"context"
	"errors"
	"time"

	"github.com/adrianliechti/wingman-soap/pkg/wsdl"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
)

var _ wsdl.Cache = (*Cache)(nil)

// Cache keeps fetched WSDL documents in a sqlite database.
type Cache struct {
	db *gorm.DB

	duration time.Duration
}

type DocumentModel struct {
	gorm.Model

	Location string `gorm:"uniqueIndex"`
	Content  []byte

	Headers datatypes.JSONMap
}

// New opens the cache at path. Entries older than duration are misses; a
// zero duration keeps them forever.
func New(path string, duration time.Duration) (*Cache, error) {
	db, err := gorm.Open(gormlite.Open(path), &gorm.Config{})

	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&DocumentModel{}); err != nil {
		return nil, err
	}

	return &Cache{
		db: db,

		duration: duration,
	}, nil
}

func (c *Cache) Get(ctx context.Context, location string) ([]byte, bool, error) {
	var m DocumentModel

	result := c.db.WithContext(ctx).Where("location = ?", location).First(&m)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if result.Error != nil {
		return nil, false, result.Error
	}

	if c.expired(m) {
		return nil, false, nil
	}

	return m.Content, true, nil
}

// Headers returns the response headers stored alongside a document.
func (c *Cache) Headers(ctx context.Context, location string) (map[string]string, error) {
	var m DocumentModel

	if result := c.db.WithContext(ctx).Where("location = ?", location).First(&m); result.Error != nil {
		return nil, result.Error
	}

	headers := map[string]string{}

	for k, v := range m.Headers {
		if s, ok := v.(string); ok {
			headers[k] = s
		}
	}

	return headers, nil
}

func (c *Cache) Put(ctx context.Context, location string, data []byte, headers map[string]string) error {
	m := &DocumentModel{
		Location: location,
		Content:  data,
	}

	if len(headers) > 0 {
		metadata := datatypes.JSONMap{}

		for k, v := range headers {
			metadata[k] = v
		}

		m.Headers = metadata
	}

	result := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "location"}},
		UpdateAll: true,
	}).Create(m)

	return result.Error
}

// Purge removes expired entries.
func (c *Cache) Purge(ctx context.Context) error {
	if c.duration <= 0 {
		return nil
	}

	cutoff := time.Now().Add(-c.duration)

	result := c.db.WithContext(ctx).Unscoped().Where("updated_at < ?", cutoff).Delete(&DocumentModel{})
	return result.Error
}

func (c *Cache) Clear(ctx context.Context) error {
	result := c.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&DocumentModel{})
	return result.Error
}

func (c *Cache) expired(m DocumentModel) bool {
	if c.duration <= 0 {
		return false
	}

	return time.Since(m.UpdatedAt) > c.duration
}
