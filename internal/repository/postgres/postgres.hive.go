// FilePath: server/apiary/internal/repository/postgres/postgres.hive.go
package postgres

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type HiveRepo struct {
	PostgresBaseRepo
}

func (r *HiveRepo) Create(ctx context.Context, hive *models.Hive) error {
	query := `
		INSERT INTO hives (id, owner_id, name, location, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :location, :created_at, :updated_at)`

	_, err := r.namedExec(ctx, "hive", query, hive)
	return err
}

func (r *HiveRepo) Get(ctx context.Context, id string) (*models.Hive, error) {
	hive := &models.Hive{}
	query := `SELECT id, owner_id, name, location, created_at, updated_at FROM hives WHERE id = $1`
	if err := r.get(ctx, hive, "hive", query, id); err != nil {
		return nil, err
	}
	return hive, nil
}

func (r *HiveRepo) Update(ctx context.Context, hive *models.Hive) error {
	query := `
		UPDATE hives SET
			name = :name,
			location = :location,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.namedExec(ctx, "hive", query, hive)
	if err != nil {
		return err
	}
	return mustAffect(result, "hive")
}

func (r *HiveRepo) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, "hive", `DELETE FROM hives WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(result, "hive")
}

func (r *HiveRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Hive, error) {
	hives := []*models.Hive{}
	query := `
		SELECT id, owner_id, name, location, created_at, updated_at
		FROM hives WHERE owner_id = $1
		ORDER BY name ASC, id ASC`
	if err := r.list(ctx, &hives, "hives", query, ownerID); err != nil {
		return nil, err
	}
	return hives, nil
}
