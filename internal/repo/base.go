package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the read-only analytics repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns a fresh session bound to ctx so query scopes never carry over
// between calls. Reads skip gorm's default write transaction.
func (b Base) DB(ctx context.Context) *gorm.DB {
	conn := b.db.Session(&gorm.Session{NewDB: true, SkipDefaultTransaction: true})
	if ctx == nil {
		return conn
	}
	return conn.WithContext(ctx)
}
