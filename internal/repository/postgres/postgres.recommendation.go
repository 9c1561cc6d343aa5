package postgres

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type RecommendationRepo struct {
	PostgresBaseRepo
}

const recommendationColumns = `rec.id, rec.officer_id, rec.beekeeper_id, rec.report_id, rec.reading_id,
	rec.message, rec.related_sensor_data, rec.created_at, rec.updated_at`

func (r *RecommendationRepo) Create(ctx context.Context, rec *models.Recommendation) error {
	query := `
		INSERT INTO recommendations (
			id, officer_id, beekeeper_id, report_id, reading_id,
			message, related_sensor_data, created_at, updated_at
		) VALUES (
			:id, :officer_id, :beekeeper_id, :report_id, :reading_id,
			:message, :related_sensor_data, :created_at, :updated_at
		)`

	_, err := r.namedExec(ctx, "recommendation", query, rec)
	return err
}

func (r *RecommendationRepo) Get(ctx context.Context, id string) (*models.Recommendation, error) {
	rec := &models.Recommendation{}
	query := `SELECT ` + recommendationColumns + ` FROM recommendations rec WHERE rec.id = $1`
	if err := r.get(ctx, rec, "recommendation", query, id); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *RecommendationRepo) Update(ctx context.Context, rec *models.Recommendation) error {
	query := `
		UPDATE recommendations SET
			message = :message,
			related_sensor_data = :related_sensor_data,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.namedExec(ctx, "recommendation", query, rec)
	if err != nil {
		return err
	}
	return mustAffect(result, "recommendation")
}

func (r *RecommendationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, "recommendation", `DELETE FROM recommendations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(result, "recommendation")
}

func (r *RecommendationRepo) ListByReport(ctx context.Context, reportID string) ([]*models.Recommendation, error) {
	recs := []*models.Recommendation{}
	query := `SELECT ` + recommendationColumns + ` FROM recommendations rec
		WHERE rec.report_id = $1
		ORDER BY rec.created_at ASC, rec.id ASC`
	if err := r.list(ctx, &recs, "recommendations", query, reportID); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListReceivedBy resolves the referenced reading by outer join; its
// measurements are NULL once the reading is gone.
func (r *RecommendationRepo) ListReceivedBy(ctx context.Context, beekeeperID string, limit int) ([]*models.ReceivedRecommendation, error) {
	recs := []*models.ReceivedRecommendation{}
	query := `
		SELECT ` + recommendationColumns + `,
			o.full_name AS officer_name, o.email AS officer_email,
			rd.temperature, rd.humidity, rd.weight
		FROM recommendations rec
		JOIN accounts o ON o.id = rec.officer_id
		LEFT JOIN readings rd ON rd.id = rec.reading_id
		WHERE rec.beekeeper_id = $1
		ORDER BY rec.created_at DESC, rec.id DESC
		LIMIT $2`
	if err := r.list(ctx, &recs, "recommendations", query, beekeeperID, limit); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *RecommendationRepo) ListSentBy(ctx context.Context, officerID string, limit int) ([]*models.SentRecommendation, error) {
	recs := []*models.SentRecommendation{}
	query := `
		SELECT ` + recommendationColumns + `,
			b.full_name AS beekeeper_name, b.email AS beekeeper_email,
			rp.message AS related_report_message
		FROM recommendations rec
		JOIN accounts b ON b.id = rec.beekeeper_id
		LEFT JOIN reports rp ON rp.id = rec.report_id
		WHERE rec.officer_id = $1
		ORDER BY rec.created_at DESC, rec.id DESC
		LIMIT $2`
	if err := r.list(ctx, &recs, "recommendations", query, officerID, limit); err != nil {
		return nil, err
	}
	return recs, nil
}
