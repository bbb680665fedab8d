package db

import (
	"context"

	"restaurant-orders/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

func Init(cfg config.DBConfig) error {
	return InitURL(cfg.URL())
}

// InitURL opens the pool from a full connection string (used by integration tests).
func InitURL(connStr string) error {
	var err error
	Pool, err = pgxpool.New(context.Background(), connStr)
	return err
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
