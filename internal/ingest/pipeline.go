// FilePath: server/apiary/internal/ingest/pipeline.go
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	"github.com/itsatony/w4b_v3/server/apiary/internal/threshold"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted after a successful commit.
const (
	EventReadingIngested = "reading.ingested"
	EventAlertCreated    = "alert.created"
)

// Options configures a Pipeline. Zero values fall back to defaults.
type Options struct {
	Thresholds threshold.Thresholds
	Picker     SensorPicker
	Source     ReadingSource
	Now        func() time.Time
}

// Pipeline turns one simulation request into a reading and, when the
// reading is critical, exactly one alert, in a single transaction.
type Pipeline struct {
	store      repository.Store
	guard      *access.Guard
	thresholds threshold.Thresholds
	picker     SensorPicker
	source     ReadingSource
	now        func() time.Time
	events     *nuts.EventEmitter
}

func New(store repository.Store, guard *access.Guard, opts Options) *Pipeline {
	p := &Pipeline{
		store:      store,
		guard:      guard,
		thresholds: opts.Thresholds,
		picker:     opts.Picker,
		source:     opts.Source,
		now:        opts.Now,
		events:     nuts.NewEventEmitter(),
	}
	if p.thresholds == (threshold.Thresholds{}) {
		p.thresholds = threshold.Default()
	}
	if p.picker == nil {
		p.picker = RandomPicker{}
	}
	if p.source == nil {
		p.source = &SimulatedSource{
			Temperature: Range{25, 45},
			Humidity:    Range{20, 60},
			Weight:      Range{10, 51},
		}
	}
	if p.now == nil {
		p.now = func() time.Time { return time.Now().UTC() }
	}
	return p
}

// Ingest records one reading for hiveID on behalf of actor. An empty
// hiveID selects the actor's first hive by name.
func (p *Pipeline) Ingest(ctx context.Context, actor *models.Actor, hiveID string) (*models.IngestResult, error) {
	var result *models.IngestResult

	err := p.store.Transaction(ctx, func(tx repository.Store) error {
		guard := p.guard.Within(tx)

		if hiveID == "" {
			if err := guard.Require(ctx, actor, access.ActionHiveList, access.Target{}); err != nil {
				return err
			}
			hives, err := tx.Hives().ListByOwner(ctx, actor.ID)
			if err != nil {
				return storageError("failed to list hives", err)
			}
			if len(hives) == 0 {
				return errors.NewNotFoundError(errors.CodeNoHivesFound, "no hives found for this beekeeper", nil)
			}
			hiveID = hives[0].ID
		}

		if err := guard.Require(ctx, actor, access.ActionReadingSimulate, access.On(hiveID)); err != nil {
			return err
		}
		hive, err := tx.Hives().Get(ctx, hiveID)
		if err != nil {
			return storageError("failed to load hive", err)
		}

		sensors, err := tx.Sensors().ListByHive(ctx, hive.ID)
		if err != nil {
			return storageError("failed to list sensors", err)
		}
		if len(sensors) == 0 {
			return errors.NewNotFoundError(errors.CodeNoSensorsFound, "no sensors registered for this hive", nil)
		}
		sensor := p.picker.Pick(sensors)

		m, err := p.source.Measure(ctx, hive, sensor)
		if err != nil {
			return errors.NewInternalError("reading source failed", err)
		}

		now := p.now()
		reading := &models.Reading{
			ID:           nuts.NID("rd", 16),
			HiveID:       hive.ID,
			SensorID:     sensor.ID,
			Measurements: m,
			Status:       p.thresholds.Evaluate(m),
			RecordedAt:   now,
		}
		if err := tx.Readings().Insert(ctx, reading); err != nil {
			return storageError("failed to store reading", err)
		}

		result = &models.IngestResult{Reading: reading, Status: reading.Status}
		if reading.Status != models.StatusCritical {
			return nil
		}

		readingID := reading.ID
		alert := &models.Alert{
			ID:        nuts.NID("al", 16),
			HiveID:    hive.ID,
			ReadingID: &readingID,
			Message:   AlertMessage(hive.ID, sensor.ID, m),
			Level:     models.AlertLevelCritical,
			CreatedAt: now,
		}
		if err := tx.Alerts().Insert(ctx, alert); err != nil {
			return storageError("failed to store alert", err)
		}
		result.AlertCreated = true
		result.Alert = alert
		return nil
	})
	if err != nil {
		if errors.CodeOf(err) == errors.CodeDBError {
			nuts.L.Errorf("[Ingest] Rolled back ingestion for hive %q: %v", hiveID, err)
		}
		return nil, err
	}

	nuts.L.Infof("[Ingest] Reading %s for hive %s is %s", result.Reading.ID, result.Reading.HiveID, result.Status)
	p.emit(EventReadingIngested, result.Reading)
	if result.AlertCreated {
		p.emit(EventAlertCreated, result.Alert)
	}
	return result, nil
}

// AlertMessage renders the human readable alert text.
func AlertMessage(hiveID, sensorID string, m models.Measurements) string {
	return fmt.Sprintf(
		"Hive %s (Sensor %s): Temp %.1f°C, Humidity %.1f%%, Weight %.2fkg - Critical conditions detected.",
		hiveID, sensorID, m.Temperature, m.Humidity, m.Weight,
	)
}

// OnAlert registers a handler for committed alerts.
func (p *Pipeline) OnAlert(handlerID string, handler func(alert *models.Alert)) {
	p.events.On(EventAlertCreated, handlerID, handler)
}

// OnReading registers a handler for committed readings.
func (p *Pipeline) OnReading(handlerID string, handler func(reading *models.Reading)) {
	p.events.On(EventReadingIngested, handlerID, handler)
}

func (p *Pipeline) emit(event string, payload interface{}) {
	if err := p.events.Emit(event, payload); err != nil {
		nuts.L.Errorf("[Ingest] Failed to emit %s: %v", event, err)
	}
}

// storageError keeps guard and validation errors as they are and reports
// everything else as DB_ERROR.
func storageError(msg string, err error) error {
	if apiErr, ok := errors.As(err); ok {
		switch apiErr.Type {
		case errors.ErrorTypeDatabase, errors.ErrorTypeAuth, errors.ErrorTypeAuthorize:
			return err
		}
	}
	return errors.NewDatabaseError(msg, err)
}
