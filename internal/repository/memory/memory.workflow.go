package memory

import (
	"context"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type reportRepo struct{ s *Store }

func reportTime(r *models.Report) time.Time { return r.CreatedAt }

func (r *reportRepo) Create(_ context.Context, report *models.Report) error {
	return r.s.write(func(st *state) error {
		if st.account(report.BeekeeperID) == nil || st.account(report.OfficerID) == nil {
			return missingRef("report")
		}
		st.reports = append(st.reports, *report)
		return nil
	})
}

func (r *reportRepo) Get(_ context.Context, id string) (*models.Report, error) {
	var out *models.Report
	err := r.s.read(func(st *state) error {
		i := find(st.reports, func(rp *models.Report) bool { return rp.ID == id })
		if i < 0 {
			return notFound("report")
		}
		v := st.reports[i]
		out = &v
		return nil
	})
	return out, err
}

func (r *reportRepo) Update(_ context.Context, report *models.Report) error {
	return r.s.write(func(st *state) error {
		i := find(st.reports, func(rp *models.Report) bool { return rp.ID == report.ID })
		if i < 0 {
			return notFound("report")
		}
		if st.account(report.OfficerID) == nil {
			return missingRef("report")
		}
		cur := &st.reports[i]
		cur.OfficerID = report.OfficerID
		cur.Message = report.Message
		cur.UpdatedAt = report.UpdatedAt
		return nil
	})
}

// Delete leaves recommendations that reference the report untouched.
func (r *reportRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if find(st.reports, func(rp *models.Report) bool { return rp.ID == id }) < 0 {
			return notFound("report")
		}
		st.reports = remove(st.reports, func(rp *models.Report) bool { return rp.ID == id })
		return nil
	})
}

func (r *reportRepo) ListSentBy(_ context.Context, beekeeperID string, limit int) ([]*models.SentReport, error) {
	out := []*models.SentReport{}
	err := r.s.read(func(st *state) error {
		reports := newestFirst(st.reports, func(rp *models.Report) bool { return rp.BeekeeperID == beekeeperID }, reportTime, limit)
		for _, rp := range reports {
			view := &models.SentReport{Report: *rp}
			if o := st.account(rp.OfficerID); o != nil {
				view.OfficerName, view.OfficerEmail = o.FullName, o.Email
			}
			out = append(out, view)
		}
		return nil
	})
	return out, err
}

func (r *reportRepo) ListReceivedBy(_ context.Context, officerID string) ([]*models.ReceivedReport, error) {
	out := []*models.ReceivedReport{}
	err := r.s.read(func(st *state) error {
		reports := newestFirst(st.reports, func(rp *models.Report) bool { return rp.OfficerID == officerID }, reportTime, 0)
		for _, rp := range reports {
			view := &models.ReceivedReport{Report: *rp, Recommendations: recommendationsFor(st, rp.ID, officerID)}
			if b := st.account(rp.BeekeeperID); b != nil {
				view.BeekeeperName, view.BeekeeperEmail = b.FullName, b.Email
			}
			out = append(out, view)
		}
		return nil
	})
	return out, err
}

// recommendationsFor lists the recommendations on a report, restricted to
// one author when officerID is set.
func recommendationsFor(st *state, reportID, officerID string) []*models.Recommendation {
	out := []*models.Recommendation{}
	for _, rec := range cloneRecommendations(st.recommendations) {
		if officerID != "" && rec.OfficerID != officerID {
			continue
		}
		if rec.ReportID != nil && *rec.ReportID == reportID {
			v := rec
			out = append(out, &v)
		}
	}
	return out
}

type recommendationRepo struct{ s *Store }

func recommendationTime(r *models.Recommendation) time.Time { return r.CreatedAt }

func (r *recommendationRepo) Create(_ context.Context, rec *models.Recommendation) error {
	return r.s.write(func(st *state) error {
		if st.account(rec.BeekeeperID) == nil || st.account(rec.OfficerID) == nil {
			return missingRef("recommendation")
		}
		v := *rec
		v.ReportID = cloneString(rec.ReportID)
		v.ReadingID = cloneString(rec.ReadingID)
		st.recommendations = append(st.recommendations, v)
		return nil
	})
}

func (r *recommendationRepo) Get(_ context.Context, id string) (*models.Recommendation, error) {
	var out *models.Recommendation
	err := r.s.read(func(st *state) error {
		i := find(st.recommendations, func(rec *models.Recommendation) bool { return rec.ID == id })
		if i < 0 {
			return notFound("recommendation")
		}
		v := cloneRecommendations(st.recommendations[i : i+1])[0]
		out = &v
		return nil
	})
	return out, err
}

func (r *recommendationRepo) Update(_ context.Context, rec *models.Recommendation) error {
	return r.s.write(func(st *state) error {
		i := find(st.recommendations, func(x *models.Recommendation) bool { return x.ID == rec.ID })
		if i < 0 {
			return notFound("recommendation")
		}
		cur := &st.recommendations[i]
		cur.Message = rec.Message
		cur.RelatedSensorData = rec.RelatedSensorData
		cur.UpdatedAt = rec.UpdatedAt
		return nil
	})
}

func (r *recommendationRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if find(st.recommendations, func(rec *models.Recommendation) bool { return rec.ID == id }) < 0 {
			return notFound("recommendation")
		}
		st.recommendations = remove(st.recommendations, func(rec *models.Recommendation) bool { return rec.ID == id })
		return nil
	})
}

func (r *recommendationRepo) ListByReport(_ context.Context, reportID string) ([]*models.Recommendation, error) {
	var out []*models.Recommendation
	err := r.s.read(func(st *state) error {
		out = recommendationsFor(st, reportID, "")
		return nil
	})
	return out, err
}

func (r *recommendationRepo) ListReceivedBy(_ context.Context, beekeeperID string, limit int) ([]*models.ReceivedRecommendation, error) {
	out := []*models.ReceivedRecommendation{}
	err := r.s.read(func(st *state) error {
		recs := newestFirst(cloneRecommendations(st.recommendations),
			func(rec *models.Recommendation) bool { return rec.BeekeeperID == beekeeperID }, recommendationTime, limit)
		for _, rec := range recs {
			view := &models.ReceivedRecommendation{Recommendation: *rec}
			if o := st.account(rec.OfficerID); o != nil {
				view.OfficerName, view.OfficerEmail = o.FullName, o.Email
			}
			if rec.ReadingID != nil {
				if i := find(st.readings, func(rd *models.Reading) bool { return rd.ID == *rec.ReadingID }); i >= 0 {
					m := st.readings[i].Measurements
					view.Temperature, view.Humidity, view.Weight = &m.Temperature, &m.Humidity, &m.Weight
				}
			}
			out = append(out, view)
		}
		return nil
	})
	return out, err
}

func (r *recommendationRepo) ListSentBy(_ context.Context, officerID string, limit int) ([]*models.SentRecommendation, error) {
	out := []*models.SentRecommendation{}
	err := r.s.read(func(st *state) error {
		recs := newestFirst(cloneRecommendations(st.recommendations),
			func(rec *models.Recommendation) bool { return rec.OfficerID == officerID }, recommendationTime, limit)
		for _, rec := range recs {
			view := &models.SentRecommendation{Recommendation: *rec}
			if b := st.account(rec.BeekeeperID); b != nil {
				view.BeekeeperName, view.BeekeeperEmail = b.FullName, b.Email
			}
			if rec.ReportID != nil {
				if i := find(st.reports, func(rp *models.Report) bool { return rp.ID == *rec.ReportID }); i >= 0 {
					msg := st.reports[i].Message
					view.RelatedReportMessage = &msg
				}
			}
			out = append(out, view)
		}
		return nil
	})
	return out, err
}
