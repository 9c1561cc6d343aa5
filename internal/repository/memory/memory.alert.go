package memory

import (
	"context"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type alertRepo struct{ s *Store }

func alertTime(a *models.Alert) time.Time { return a.CreatedAt }

func (r *alertRepo) Insert(_ context.Context, alert *models.Alert) error {
	return r.s.write(func(st *state) error {
		if st.hive(alert.HiveID) == nil {
			return missingRef("alert")
		}
		if alert.ReadingID != nil {
			if find(st.readings, func(rd *models.Reading) bool { return rd.ID == *alert.ReadingID }) < 0 {
				return missingRef("alert")
			}
			// one alert per reading
			if find(st.alerts, func(a *models.Alert) bool {
				return a.ReadingID != nil && *a.ReadingID == *alert.ReadingID
			}) >= 0 {
				return errors.NewConflictError(errors.CodeDBError, "alert already exists for reading", nil)
			}
		}
		v := *alert
		v.ReadingID = cloneString(alert.ReadingID)
		st.alerts = append(st.alerts, v)
		return nil
	})
}

func (r *alertRepo) ListByHive(_ context.Context, hiveID string) ([]*models.Alert, error) {
	var out []*models.Alert
	err := r.s.read(func(st *state) error {
		out = newestFirst(st.alerts, func(a *models.Alert) bool { return a.HiveID == hiveID }, alertTime, 0)
		return nil
	})
	return out, err
}

func (r *alertRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]*models.AlertView, error) {
	out := []*models.AlertView{}
	err := r.s.read(func(st *state) error {
		alerts := newestFirst(st.alerts, func(a *models.Alert) bool { return st.ownsHive(ownerID, a.HiveID) }, alertTime, limit)
		for _, a := range alerts {
			out = append(out, &models.AlertView{Alert: *a, HiveName: st.hive(a.HiveID).Name})
		}
		return nil
	})
	return out, err
}

func (r *alertRepo) DeleteByHive(_ context.Context, hiveID string) error {
	return r.s.write(func(st *state) error {
		st.alerts = remove(st.alerts, func(a *models.Alert) bool { return a.HiveID == hiveID })
		return nil
	})
}
