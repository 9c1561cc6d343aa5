package database

import (
	"context"
	"fmt"

	nuts "github.com/vaudience/go-nuts"
)

// schema is applied in order. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            TEXT PRIMARY KEY,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('beekeeper', 'officer', 'admin')),
		approved      BOOLEAN NOT NULL DEFAULT FALSE,
		phone         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS hives (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		location   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS hives_owner_idx ON hives (owner_id, name)`,
	`CREATE TABLE IF NOT EXISTS sensors (
		id            TEXT PRIMARY KEY,
		hive_id       TEXT NOT NULL REFERENCES hives(id) ON DELETE CASCADE,
		serial_number TEXT NOT NULL UNIQUE,
		type          TEXT NOT NULL CHECK (type IN ('combined', 'temperature', 'humidity', 'weight')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS readings (
		id          TEXT PRIMARY KEY,
		hive_id     TEXT NOT NULL REFERENCES hives(id) ON DELETE CASCADE,
		sensor_id   TEXT NOT NULL REFERENCES sensors(id) ON DELETE CASCADE,
		temperature DOUBLE PRECISION NOT NULL,
		humidity    DOUBLE PRECISION NOT NULL,
		weight      DOUBLE PRECISION NOT NULL,
		status      TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS readings_hive_time_idx ON readings (hive_id, recorded_at DESC)`,
	`CREATE INDEX IF NOT EXISTS readings_sensor_time_idx ON readings (sensor_id, recorded_at DESC)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id         TEXT PRIMARY KEY,
		hive_id    TEXT NOT NULL REFERENCES hives(id) ON DELETE CASCADE,
		reading_id TEXT UNIQUE REFERENCES readings(id) ON DELETE SET NULL,
		message    TEXT NOT NULL,
		level      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS alerts_hive_time_idx ON alerts (hive_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id           TEXT PRIMARY KEY,
		beekeeper_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		officer_id   TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		message      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// report_id and reading_id are weak references resolved by outer join.
	`CREATE TABLE IF NOT EXISTS recommendations (
		id                  TEXT PRIMARY KEY,
		officer_id          TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		beekeeper_id        TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		report_id           TEXT,
		reading_id          TEXT,
		message             TEXT NOT NULL,
		related_sensor_data TEXT NOT NULL DEFAULT '',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS recommendations_beekeeper_idx ON recommendations (beekeeper_id, created_at DESC)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, db DB) error {
	for i, stmt := range schema {
		if _, err := db.GetDB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	nuts.L.Infof("[PostgresDB] Schema ensured (%d statements)", len(schema))
	return nil
}
