package memory

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type sensorRepo struct{ s *Store }

func duplicateSerial() error {
	return errors.NewConflictError(errors.CodeDuplicateSerial, "serial number already registered", nil)
}

func (r *sensorRepo) Create(_ context.Context, sensor *models.Sensor) error {
	return r.s.write(func(st *state) error {
		if st.hive(sensor.HiveID) == nil {
			return missingRef("sensor")
		}
		if find(st.sensors, func(s *models.Sensor) bool { return s.SerialNumber == sensor.SerialNumber }) >= 0 {
			return duplicateSerial()
		}
		st.sensors = append(st.sensors, *sensor)
		return nil
	})
}

func (r *sensorRepo) get(match func(*models.Sensor) bool) (*models.Sensor, error) {
	var out *models.Sensor
	err := r.s.read(func(st *state) error {
		i := find(st.sensors, match)
		if i < 0 {
			return notFound("sensor")
		}
		v := st.sensors[i]
		out = &v
		return nil
	})
	return out, err
}

func (r *sensorRepo) Get(_ context.Context, id string) (*models.Sensor, error) {
	return r.get(func(s *models.Sensor) bool { return s.ID == id })
}

func (r *sensorRepo) GetBySerial(_ context.Context, serial string) (*models.Sensor, error) {
	return r.get(func(s *models.Sensor) bool { return s.SerialNumber == serial })
}

func (r *sensorRepo) Update(_ context.Context, sensor *models.Sensor) error {
	return r.s.write(func(st *state) error {
		i := find(st.sensors, func(s *models.Sensor) bool { return s.ID == sensor.ID })
		if i < 0 {
			return notFound("sensor")
		}
		if st.hive(sensor.HiveID) == nil {
			return missingRef("sensor")
		}
		if find(st.sensors, func(s *models.Sensor) bool {
			return s.SerialNumber == sensor.SerialNumber && s.ID != sensor.ID
		}) >= 0 {
			return duplicateSerial()
		}
		cur := &st.sensors[i]
		cur.HiveID = sensor.HiveID
		cur.SerialNumber = sensor.SerialNumber
		cur.Type = sensor.Type
		cur.UpdatedAt = sensor.UpdatedAt
		return nil
	})
}

func (r *sensorRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if find(st.sensors, func(s *models.Sensor) bool { return s.ID == id }) < 0 {
			return notFound("sensor")
		}
		st.deleteReadings(func(rd *models.Reading) bool { return rd.SensorID == id })
		st.sensors = remove(st.sensors, func(s *models.Sensor) bool { return s.ID == id })
		return nil
	})
}

func (r *sensorRepo) ListByHive(_ context.Context, hiveID string) ([]*models.Sensor, error) {
	out := []*models.Sensor{}
	err := r.s.read(func(st *state) error {
		for _, s := range st.sensors {
			if s.HiveID == hiveID {
				v := s
				out = append(out, &v)
			}
		}
		return nil
	})
	return out, err
}

func (r *sensorRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.SensorView, error) {
	out := []*models.SensorView{}
	err := r.s.read(func(st *state) error {
		for i := len(st.sensors) - 1; i >= 0; i-- {
			s := st.sensors[i]
			h := st.hive(s.HiveID)
			if h == nil || h.OwnerID != ownerID {
				continue
			}
			out = append(out, &models.SensorView{Sensor: s, HiveName: h.Name, HiveLocation: h.Location})
		}
		return nil
	})
	return out, err
}
