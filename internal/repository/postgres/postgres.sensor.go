// FilePath: server/apiary/internal/repository/postgres/postgres.sensor.go
package postgres

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type SensorRepo struct {
	PostgresBaseRepo
}

const sensorColumns = `id, hive_id, serial_number, type, created_at, updated_at`

func (r *SensorRepo) Create(ctx context.Context, sensor *models.Sensor) error {
	query := `
		INSERT INTO sensors (id, hive_id, serial_number, type, created_at, updated_at)
		VALUES (:id, :hive_id, :serial_number, :type, :created_at, :updated_at)`

	_, err := r.namedExec(ctx, "sensor", query, sensor)
	return err
}

func (r *SensorRepo) Get(ctx context.Context, id string) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	if err := r.get(ctx, sensor, "sensor", `SELECT `+sensorColumns+` FROM sensors WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return sensor, nil
}

func (r *SensorRepo) GetBySerial(ctx context.Context, serial string) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	if err := r.get(ctx, sensor, "sensor", `SELECT `+sensorColumns+` FROM sensors WHERE serial_number = $1`, serial); err != nil {
		return nil, err
	}
	return sensor, nil
}

func (r *SensorRepo) Update(ctx context.Context, sensor *models.Sensor) error {
	query := `
		UPDATE sensors SET
			hive_id = :hive_id,
			serial_number = :serial_number,
			type = :type,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.namedExec(ctx, "sensor", query, sensor)
	if err != nil {
		return err
	}
	return mustAffect(result, "sensor")
}

func (r *SensorRepo) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, "sensor", `DELETE FROM sensors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(result, "sensor")
}

func (r *SensorRepo) ListByHive(ctx context.Context, hiveID string) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT ` + sensorColumns + ` FROM sensors WHERE hive_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.list(ctx, &sensors, "sensors", query, hiveID); err != nil {
		return nil, err
	}
	return sensors, nil
}

func (r *SensorRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.SensorView, error) {
	sensors := []*models.SensorView{}
	query := `
		SELECT s.id, s.hive_id, s.serial_number, s.type, s.created_at, s.updated_at,
			h.name AS hive_name, h.location AS hive_location
		FROM sensors s
		JOIN hives h ON h.id = s.hive_id
		WHERE h.owner_id = $1
		ORDER BY s.created_at DESC, s.id DESC`
	if err := r.list(ctx, &sensors, "sensors", query, ownerID); err != nil {
		return nil, err
	}
	return sensors, nil
}
