package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"happy-jasmine/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service owns the shared connection pool
type Service struct {
	db  *sql.DB
	dsn string
}

// New opens the connection pool described by cfg
func New(cfg config.DatabaseConfig) (*Service, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Service{db: db, dsn: dsn}, nil
}

// DB returns the connection pool
func (s *Service) DB() *sql.DB {
	return s.db
}

// DSN returns the connection string, used by connections outside the pool
func (s *Service) DSN() string {
	return s.dsn
}

// Health pings the database and reports pool statistics
func (s *Service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)

	return stats
}

// Close closes the connection pool
func (s *Service) Close() error {
	return s.db.Close()
}
