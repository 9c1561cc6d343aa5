package postgres

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type AlertRepo struct {
	PostgresBaseRepo
}

func (r *AlertRepo) Insert(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (id, hive_id, reading_id, message, level, created_at)
		VALUES (:id, :hive_id, :reading_id, :message, :level, :created_at)`

	_, err := r.namedExec(ctx, "alert", query, alert)
	return err
}

func (r *AlertRepo) ListByHive(ctx context.Context, hiveID string) ([]*models.Alert, error) {
	alerts := []*models.Alert{}
	query := `
		SELECT id, hive_id, reading_id, message, level, created_at
		FROM alerts WHERE hive_id = $1
		ORDER BY created_at DESC, id DESC`
	if err := r.list(ctx, &alerts, "alerts", query, hiveID); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *AlertRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.AlertView, error) {
	alerts := []*models.AlertView{}
	query := `
		SELECT a.id, a.hive_id, a.reading_id, a.message, a.level, a.created_at, h.name AS hive_name
		FROM alerts a
		JOIN hives h ON h.id = a.hive_id
		WHERE h.owner_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2`
	if err := r.list(ctx, &alerts, "alerts", query, ownerID, limit); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *AlertRepo) DeleteByHive(ctx context.Context, hiveID string) error {
	_, err := r.exec(ctx, "alerts", `DELETE FROM alerts WHERE hive_id = $1`, hiveID)
	return err
}
