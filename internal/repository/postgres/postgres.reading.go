// FilePath: server/apiary/internal/repository/postgres/postgres.reading.go
package postgres

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type ReadingRepo struct {
	PostgresBaseRepo
}

const readingColumns = `r.id, r.hive_id, r.sensor_id, r.temperature, r.humidity, r.weight, r.status, r.recorded_at`

func (r *ReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	query := `
		INSERT INTO readings (id, hive_id, sensor_id, temperature, humidity, weight, status, recorded_at)
		VALUES (:id, :hive_id, :sensor_id, :temperature, :humidity, :weight, :status, :recorded_at)`

	_, err := r.namedExec(ctx, "reading", query, reading)
	return err
}

func (r *ReadingRepo) Get(ctx context.Context, id string) (*models.Reading, error) {
	reading := &models.Reading{}
	if err := r.get(ctx, reading, "reading", `SELECT `+readingColumns+` FROM readings r WHERE r.id = $1`, id); err != nil {
		return nil, err
	}
	return reading, nil
}

func (r *ReadingRepo) LatestByHive(ctx context.Context, hiveID string, limit int) ([]*models.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings r WHERE r.hive_id = $1
		ORDER BY r.recorded_at DESC, r.id DESC LIMIT $2`
	return r.latest(ctx, query, hiveID, limit)
}

func (r *ReadingRepo) LatestBySensor(ctx context.Context, sensorID string, limit int) ([]*models.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings r WHERE r.sensor_id = $1
		ORDER BY r.recorded_at DESC, r.id DESC LIMIT $2`
	return r.latest(ctx, query, sensorID, limit)
}

func (r *ReadingRepo) LatestByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings r
		JOIN hives h ON h.id = r.hive_id
		WHERE h.owner_id = $1
		ORDER BY r.recorded_at DESC, r.id DESC LIMIT $2`
	return r.latest(ctx, query, ownerID, limit)
}

func (r *ReadingRepo) latest(ctx context.Context, query, key string, limit int) ([]*models.Reading, error) {
	readings := []*models.Reading{}
	if err := r.list(ctx, &readings, "readings", query, key, limit); err != nil {
		return nil, err
	}
	return readings, nil
}

// DeleteBySensor relies on alerts.reading_id ON DELETE SET NULL to detach alerts.
func (r *ReadingRepo) DeleteBySensor(ctx context.Context, sensorID string) error {
	_, err := r.exec(ctx, "readings", `DELETE FROM readings WHERE sensor_id = $1`, sensorID)
	return err
}

func (r *ReadingRepo) DeleteByHive(ctx context.Context, hiveID string) error {
	_, err := r.exec(ctx, "readings", `DELETE FROM readings WHERE hive_id = $1`, hiveID)
	return err
}
