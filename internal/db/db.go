package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
)

type DB struct {
	Conn *sqlx.DB
}

func New(cfg *config.DBConfig) (*DB, error) {
	dbConn, err := sqlx.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db.New: cannot connect to database: %w", err)
	}

	switch cfg.Driver {
	case "sqlite3":
		// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY.
		dbConn.SetMaxOpenConns(1)
	default:
		dbConn.SetMaxOpenConns(20)
		dbConn.SetMaxIdleConns(5)
		dbConn.SetConnMaxLifetime(60 * time.Minute)
	}

	return &DB{Conn: dbConn}, nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}
