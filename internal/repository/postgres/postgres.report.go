package postgres

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/lib/pq"
)

type ReportRepo struct {
	PostgresBaseRepo
}

func (r *ReportRepo) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, beekeeper_id, officer_id, message, created_at, updated_at)
		VALUES (:id, :beekeeper_id, :officer_id, :message, :created_at, :updated_at)`

	_, err := r.namedExec(ctx, "report", query, report)
	return err
}

func (r *ReportRepo) Get(ctx context.Context, id string) (*models.Report, error) {
	report := &models.Report{}
	query := `SELECT id, beekeeper_id, officer_id, message, created_at, updated_at FROM reports WHERE id = $1`
	if err := r.get(ctx, report, "report", query, id); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *ReportRepo) Update(ctx context.Context, report *models.Report) error {
	query := `
		UPDATE reports SET
			officer_id = :officer_id,
			message = :message,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.namedExec(ctx, "report", query, report)
	if err != nil {
		return err
	}
	return mustAffect(result, "report")
}

func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, "report", `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(result, "report")
}

func (r *ReportRepo) ListSentBy(ctx context.Context, beekeeperID string, limit int) ([]*models.SentReport, error) {
	reports := []*models.SentReport{}
	query := `
		SELECT r.id, r.beekeeper_id, r.officer_id, r.message, r.created_at, r.updated_at,
			o.full_name AS officer_name, o.email AS officer_email
		FROM reports r
		JOIN accounts o ON o.id = r.officer_id
		WHERE r.beekeeper_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2`
	if err := r.list(ctx, &reports, "reports", query, beekeeperID, limit); err != nil {
		return nil, err
	}
	return reports, nil
}

// ListReceivedBy loads the officer's inbox and attaches the recommendations
// written against each report.
func (r *ReportRepo) ListReceivedBy(ctx context.Context, officerID string) ([]*models.ReceivedReport, error) {
	reports := []*models.ReceivedReport{}
	query := `
		SELECT r.id, r.beekeeper_id, r.officer_id, r.message, r.created_at, r.updated_at,
			b.full_name AS beekeeper_name, b.email AS beekeeper_email
		FROM reports r
		JOIN accounts b ON b.id = r.beekeeper_id
		WHERE r.officer_id = $1
		ORDER BY r.created_at DESC, r.id DESC`
	if err := r.list(ctx, &reports, "reports", query, officerID); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return reports, nil
	}

	ids := make([]string, 0, len(reports))
	byID := make(map[string]*models.ReceivedReport, len(reports))
	for _, rep := range reports {
		rep.Recommendations = []*models.Recommendation{}
		ids = append(ids, rep.ID)
		byID[rep.ID] = rep
	}

	recs := []*models.Recommendation{}
	recQuery := `SELECT ` + recommendationColumns + ` FROM recommendations rec
		WHERE rec.report_id = ANY($1) AND rec.officer_id = $2
		ORDER BY rec.created_at ASC, rec.id ASC`
	if err := r.list(ctx, &recs, "recommendations", recQuery, pq.Array(ids), officerID); err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ReportID == nil {
			continue
		}
		if rep, ok := byID[*rec.ReportID]; ok {
			rep.Recommendations = append(rep.Recommendations, rec)
		}
	}
	return reports, nil
}
