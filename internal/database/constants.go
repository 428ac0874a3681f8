package database

import "time"

const (
	// DefaultMinConnections is kept open even when idle. MaxConns never
	// drops below it.
	DefaultMinConnections = 2

	// PingTimeout bounds the startup connectivity check.
	PingTimeout = 5 * time.Second

	// GooseDialect is the goose dialect for PostgreSQL
	GooseDialect = "postgres"
)

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

const (
	LogMsgConnected         = "Connected to reward database"
	LogMsgMigrationsApplied = "Database migrations applied"
)
