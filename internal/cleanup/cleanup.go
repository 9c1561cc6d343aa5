package cleanup

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted after a successful commit.
const (
	EventHiveDeleted   = "hive.deleted"
	EventSensorDeleted = "sensor.deleted"
	EventAlertsDeleted = "alerts.deleted"
)

// CleanupService coordinates deletion of hierarchical data
type CleanupService struct {
	store  repository.Store
	guard  *access.Guard
	events *nuts.EventEmitter
}

// New creates a new CleanupService
func New(store repository.Store, guard *access.Guard) *CleanupService {
	return &CleanupService{
		store:  store,
		guard:  guard,
		events: nuts.NewEventEmitter(),
	}
}

// DeleteHive deletes a hive and all its associated data
func (s *CleanupService) DeleteHive(ctx context.Context, actor *models.Actor, hiveID string) error {
	var sensorIDs []string

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := s.guard.Within(tx).Require(ctx, actor, access.ActionHiveDelete, access.On(hiveID)); err != nil {
			return err
		}

		sensors, err := tx.Sensors().ListByHive(ctx, hiveID)
		if err != nil {
			return storageError("failed to list sensors", err)
		}

		if err := tx.Alerts().DeleteByHive(ctx, hiveID); err != nil {
			return storageError("failed to delete alerts", err)
		}

		for _, sensor := range sensors {
			if err := tx.Readings().DeleteBySensor(ctx, sensor.ID); err != nil {
				return storageError("failed to delete readings", err)
			}
			if err := tx.Sensors().Delete(ctx, sensor.ID); err != nil {
				return storageError("failed to delete sensor", err)
			}
			sensorIDs = append(sensorIDs, sensor.ID)
		}

		// readings whose sensor was already gone
		if err := tx.Readings().DeleteByHive(ctx, hiveID); err != nil {
			return storageError("failed to delete readings", err)
		}

		if err := tx.Hives().Delete(ctx, hiveID); err != nil {
			return storageError("failed to delete hive", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	nuts.L.Infof("[Cleanup] Deleted hive %s with %d sensors", hiveID, len(sensorIDs))
	s.emit(EventAlertsDeleted, hiveID)
	for _, id := range sensorIDs {
		s.emit(EventSensorDeleted, id)
	}
	s.emit(EventHiveDeleted, hiveID)
	return nil
}

// DeleteSensor deletes a sensor and its readings. Alerts stay with the hive.
func (s *CleanupService) DeleteSensor(ctx context.Context, actor *models.Actor, sensorID string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := s.guard.Within(tx).Require(ctx, actor, access.ActionSensorDelete, access.On(sensorID)); err != nil {
			return err
		}
		if err := tx.Readings().DeleteBySensor(ctx, sensorID); err != nil {
			return storageError("failed to delete readings", err)
		}
		if err := tx.Sensors().Delete(ctx, sensorID); err != nil {
			return storageError("failed to delete sensor", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	nuts.L.Infof("[Cleanup] Deleted sensor %s", sensorID)
	s.emit(EventSensorDeleted, sensorID)
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event, handlerID string, handler func(id string)) {
	s.events.On(event, handlerID, handler)
}

func (s *CleanupService) emit(event, id string) {
	if err := s.events.Emit(event, id); err != nil {
		nuts.L.Errorf("[Cleanup] Failed to emit %s for %s: %v", event, id, err)
	}
}

// storageError keeps typed errors from the repositories and reports
// everything else as DB_ERROR.
func storageError(msg string, err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.NewDatabaseError(msg, err)
}
