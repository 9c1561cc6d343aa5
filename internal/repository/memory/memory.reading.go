package memory

import (
	"context"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type readingRepo struct{ s *Store }

func readingTime(r *models.Reading) time.Time { return r.RecordedAt }

func (r *readingRepo) Insert(_ context.Context, reading *models.Reading) error {
	return r.s.write(func(st *state) error {
		if st.hive(reading.HiveID) == nil {
			return missingRef("reading")
		}
		if find(st.sensors, func(s *models.Sensor) bool { return s.ID == reading.SensorID }) < 0 {
			return missingRef("reading")
		}
		if find(st.readings, func(rd *models.Reading) bool { return rd.ID == reading.ID }) >= 0 {
			return errors.NewConflictError(errors.CodeDBError, "reading already exists", nil)
		}
		st.readings = append(st.readings, *reading)
		return nil
	})
}

func (r *readingRepo) Get(_ context.Context, id string) (*models.Reading, error) {
	var out *models.Reading
	err := r.s.read(func(st *state) error {
		i := find(st.readings, func(rd *models.Reading) bool { return rd.ID == id })
		if i < 0 {
			return notFound("reading")
		}
		v := st.readings[i]
		out = &v
		return nil
	})
	return out, err
}

func (r *readingRepo) latest(keep func(st *state, rd *models.Reading) bool, limit int) ([]*models.Reading, error) {
	var out []*models.Reading
	err := r.s.read(func(st *state) error {
		out = newestFirst(st.readings, func(rd *models.Reading) bool { return keep(st, rd) }, readingTime, limit)
		return nil
	})
	return out, err
}

func (r *readingRepo) LatestByHive(_ context.Context, hiveID string, limit int) ([]*models.Reading, error) {
	return r.latest(func(_ *state, rd *models.Reading) bool { return rd.HiveID == hiveID }, limit)
}

func (r *readingRepo) LatestBySensor(_ context.Context, sensorID string, limit int) ([]*models.Reading, error) {
	return r.latest(func(_ *state, rd *models.Reading) bool { return rd.SensorID == sensorID }, limit)
}

func (r *readingRepo) LatestByOwner(_ context.Context, ownerID string, limit int) ([]*models.Reading, error) {
	return r.latest(func(st *state, rd *models.Reading) bool { return st.ownsHive(ownerID, rd.HiveID) }, limit)
}

func (r *readingRepo) DeleteBySensor(_ context.Context, sensorID string) error {
	return r.s.write(func(st *state) error {
		st.deleteReadings(func(rd *models.Reading) bool { return rd.SensorID == sensorID })
		return nil
	})
}

func (r *readingRepo) DeleteByHive(_ context.Context, hiveID string) error {
	return r.s.write(func(st *state) error {
		st.deleteReadings(func(rd *models.Reading) bool { return rd.HiveID == hiveID })
		return nil
	})
}
