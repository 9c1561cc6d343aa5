package hubservice

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

// SimulateReading ingests one simulated reading for an owned hive. An
// empty hiveID uses the actor's first hive.
func (s *HubService) SimulateReading(ctx context.Context, actor *models.Actor, hiveID string) (*models.IngestResult, error) {
	return s.Pipeline.Ingest(ctx, actor, clean(hiveID))
}

// LiveReadings returns the latest readings across all owned hives, or for
// one owned hive when hiveID is set.
func (s *HubService) LiveReadings(ctx context.Context, actor *models.Actor, hiveID string) ([]*models.Reading, error) {
	hiveID = clean(hiveID)
	if hiveID == "" {
		if err := s.Guard.Require(ctx, actor, access.ActionHiveList, access.Target{}); err != nil {
			return nil, err
		}
		return s.Store.Readings().LatestByOwner(ctx, actor.ID, s.Limits.Readings)
	}
	if err := s.Guard.Require(ctx, actor, access.ActionReadingView, access.On(hiveID)); err != nil {
		return nil, err
	}
	return s.Store.Readings().LatestByHive(ctx, hiveID, s.Limits.Readings)
}

// SensorReadings returns the latest readings of one owned sensor
func (s *HubService) SensorReadings(ctx context.Context, actor *models.Actor, sensorID string) ([]*models.Reading, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionSensorRead, access.On(sensorID)); err != nil {
		return nil, err
	}
	return s.Store.Readings().LatestBySensor(ctx, sensorID, s.Limits.Readings)
}

// Alerts returns the latest alerts across owned hives
func (s *HubService) Alerts(ctx context.Context, actor *models.Actor) ([]*models.AlertView, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionAlertView, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Alerts().ListByOwner(ctx, actor.ID, s.Limits.Alerts)
}
