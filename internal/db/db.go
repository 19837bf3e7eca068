package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// Database holds the SQL connection pool for content records.
type Database struct {
	*sql.DB
}

// New opens and configures a MySQL pool, then checks it answers within
// cfg.PingTimeout. The pool is closed again when it does not.
func New(ctx context.Context, cfg Config) (*Database, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open mariadb: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mariadb: %w", err)
	}
	return &Database{db}, nil
}
