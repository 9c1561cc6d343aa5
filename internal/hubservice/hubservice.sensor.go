package hubservice

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// SensorInput is the register or update payload.
type SensorInput struct {
	HiveID       string `json:"hive_id"`
	SerialNumber string `json:"serial_number"`
	Type         string `json:"type"`
}

func (in SensorInput) validate() (models.SensorType, error) {
	if clean(in.SerialNumber) == "" || clean(in.Type) == "" {
		return "", missingFields("hive, serial number and type are required")
	}
	st, ok := models.ParseSensorType(in.Type)
	if !ok {
		return "", errors.NewValidationError(errors.CodeInvalidSensorType, "unknown sensor type", nil)
	}
	return st, nil
}

func duplicateSerial() error {
	return errors.NewConflictError(errors.CodeDuplicateSerial, "serial number already registered", nil)
}

// serialTaken reports whether another sensor than exceptID uses serial.
func serialTaken(ctx context.Context, tx repository.Store, serial, exceptID string) (bool, error) {
	other, err := tx.Sensors().GetBySerial(ctx, serial)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return other.ID != exceptID, nil
}

// RegisterSensor attaches a new sensor to an owned hive
func (s *HubService) RegisterSensor(ctx context.Context, actor *models.Actor, in SensorInput) (*models.Sensor, error) {
	var sensor *models.Sensor
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		hiveID := clean(in.HiveID)
		if err := guard.Require(ctx, actor, access.ActionSensorRegister, access.On(hiveID)); err != nil {
			return err
		}
		st, err := in.validate()
		if err != nil {
			return err
		}
		serial := clean(in.SerialNumber)
		taken, err := serialTaken(ctx, tx, serial, "")
		if err != nil {
			return err
		}
		if taken {
			return duplicateSerial()
		}

		now := s.now()
		sensor = &models.Sensor{
			ID:           nuts.NID("sn", 12),
			HiveID:       hiveID,
			SerialNumber: serial,
			Type:         st,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Sensors().Create(ctx, sensor)
	})
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[SensorService] Registered sensor %s (%s) on hive %s", sensor.ID, sensor.SerialNumber, sensor.HiveID)
	return sensor, nil
}

// UpdateSensor changes serial, type or hive of an owned sensor. Moving it
// requires owning the destination hive too.
func (s *HubService) UpdateSensor(ctx context.Context, actor *models.Actor, id string, in SensorInput) (*models.Sensor, error) {
	var sensor *models.Sensor
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionSensorUpdate, access.On(id)); err != nil {
			return err
		}
		st, err := in.validate()
		if err != nil {
			return err
		}

		existing, err := tx.Sensors().Get(ctx, id)
		if err != nil {
			return err
		}
		hiveID := clean(in.HiveID)
		if hiveID == "" {
			hiveID = existing.HiveID
		}
		if hiveID != existing.HiveID {
			if err := guard.Require(ctx, actor, access.ActionSensorRegister, access.On(hiveID)); err != nil {
				return err
			}
		}

		serial := clean(in.SerialNumber)
		taken, err := serialTaken(ctx, tx, serial, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicateSerial()
		}

		existing.HiveID = hiveID
		existing.SerialNumber = serial
		existing.Type = st
		existing.UpdatedAt = s.now()
		if err := tx.Sensors().Update(ctx, existing); err != nil {
			return err
		}
		sensor = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sensor, nil
}

// DeleteSensor removes an owned sensor and its readings
func (s *HubService) DeleteSensor(ctx context.Context, actor *models.Actor, id string) error {
	return s.Cleanup.DeleteSensor(ctx, actor, id)
}

// ListSensors lists the actor's sensors with their hive name and location
func (s *HubService) ListSensors(ctx context.Context, actor *models.Actor) ([]*models.SensorView, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionSensorList, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Sensors().ListByOwner(ctx, actor.ID)
}
