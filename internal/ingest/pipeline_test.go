package ingest

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keeperA = &models.Actor{ID: "acc_a", Role: models.RoleBeekeeper}
	keeperB = &models.Actor{ID: "acc_b", Role: models.RoleBeekeeper}
	healthy = FixedSource{Temperature: 34, Humidity: 55, Weight: 30}
	hot     = FixedSource{Temperature: 43.4, Humidity: 55, Weight: 30.5}
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Accounts().Create(ctx, &models.Account{ID: "acc_a", Email: "a@x.io", Role: models.RoleBeekeeper, Approved: true}))
	require.NoError(t, s.Accounts().Create(ctx, &models.Account{ID: "acc_b", Email: "b@x.io", Role: models.RoleBeekeeper, Approved: true}))
	require.NoError(t, s.Hives().Create(ctx, &models.Hive{ID: "hv_a2", OwnerID: "acc_a", Name: "Zulu"}))
	require.NoError(t, s.Hives().Create(ctx, &models.Hive{ID: "hv_a1", OwnerID: "acc_a", Name: "Alpha"}))
	require.NoError(t, s.Hives().Create(ctx, &models.Hive{ID: "hv_b", OwnerID: "acc_b", Name: "Bravo"}))
	require.NoError(t, s.Sensors().Create(ctx, &models.Sensor{ID: "sn_a1", HiveID: "hv_a1", SerialNumber: "A-1", Type: models.SensorTypeCombined}))
	require.NoError(t, s.Sensors().Create(ctx, &models.Sensor{ID: "sn_b", HiveID: "hv_b", SerialNumber: "B-1", Type: models.SensorTypeCombined}))
	return s
}

func newPipeline(store repository.Store, src ReadingSource) *Pipeline {
	return New(store, access.NewGuard(store), Options{Picker: FirstPicker{}, Source: src})
}

func TestIngestNormalReading(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	res, err := newPipeline(s, healthy).Ingest(ctx, keeperA, "hv_a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNormal, res.Status)
	assert.False(t, res.AlertCreated)
	assert.Nil(t, res.Alert)
	assert.Equal(t, "sn_a1", res.Reading.SensorID)

	alerts, err := s.Alerts().ListByHive(ctx, "hv_a1")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestIngestCriticalCreatesOneAlert(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	res, err := newPipeline(s, hot).Ingest(ctx, keeperA, "hv_a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCritical, res.Status)
	require.True(t, res.AlertCreated)
	require.NotNil(t, res.Alert.ReadingID)
	assert.Equal(t, res.Reading.ID, *res.Alert.ReadingID)
	assert.Equal(t, models.AlertLevelCritical, res.Alert.Level)
	assert.Equal(t,
		"Hive hv_a1 (Sensor sn_a1): Temp 43.4°C, Humidity 55.0%, Weight 30.50kg - Critical conditions detected.",
		res.Alert.Message)

	alerts, err := s.Alerts().ListByHive(ctx, "hv_a1")
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	stored, err := s.Readings().Get(ctx, res.Reading.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCritical, stored.Status)
}

func TestIngestDefaultsToFirstHiveByName(t *testing.T) {
	s := seed(t)
	res, err := newPipeline(s, healthy).Ingest(context.Background(), keeperA, "")
	require.NoError(t, err)
	assert.Equal(t, "hv_a1", res.Reading.HiveID)
}

func TestIngestDenials(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	p := newPipeline(s, healthy)

	_, err := p.Ingest(ctx, keeperA, "hv_b")
	assert.Equal(t, errors.CodeNoHivesFound, errors.CodeOf(err))

	_, err = p.Ingest(ctx, keeperA, "hv_missing")
	assert.Equal(t, errors.CodeNoHivesFound, errors.CodeOf(err))

	_, err = p.Ingest(ctx, keeperA, "hv_a2")
	assert.Equal(t, errors.CodeNoSensorsFound, errors.CodeOf(err))

	_, err = p.Ingest(ctx, nil, "hv_a1")
	assert.Equal(t, errors.CodeUnauthorized, errors.CodeOf(err))

	_, err = p.Ingest(ctx, &models.Actor{ID: "acc_o", Role: models.RoleOfficer}, "hv_a1")
	assert.Equal(t, errors.CodeForbiddenRole, errors.CodeOf(err))

	fresh := &models.Actor{ID: "acc_new", Role: models.RoleBeekeeper}
	_, err = p.Ingest(ctx, fresh, "")
	assert.Equal(t, errors.CodeNoHivesFound, errors.CodeOf(err))

	readings, err := s.Readings().LatestByOwner(ctx, "acc_b", 10)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

type failingAlerts struct{ repository.AlertRepository }

func (failingAlerts) Insert(context.Context, *models.Alert) error {
	return stderrors.New("disk full")
}

type failingStore struct{ repository.Store }

func (f failingStore) Alerts() repository.AlertRepository {
	return failingAlerts{f.Store.Alerts()}
}

func (f failingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(failingStore{tx})
	})
}

func TestIngestRollsBackWhenAlertFails(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, err := newPipeline(failingStore{s}, hot).Ingest(ctx, keeperA, "hv_a1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeDBError, errors.CodeOf(err))

	readings, err := s.Readings().LatestByHive(ctx, "hv_a1", 10)
	require.NoError(t, err)
	assert.Empty(t, readings)

	// a normal reading never touches alerts, so it still goes through
	_, err = newPipeline(failingStore{s}, healthy).Ingest(ctx, keeperA, "hv_a1")
	require.NoError(t, err)
}

func TestIngestEmitsAfterCommit(t *testing.T) {
	s := seed(t)
	p := newPipeline(s, hot)

	got := make(chan *models.Alert, 1)
	p.OnAlert("test", func(alert *models.Alert) { got <- alert })

	res, err := p.Ingest(context.Background(), keeperB, "hv_b")
	require.NoError(t, err)

	select {
	case alert := <-got:
		assert.Equal(t, res.Alert.ID, alert.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("alert event not delivered")
	}
}

func TestSimulatedSourceStaysInRange(t *testing.T) {
	src := &SimulatedSource{
		Temperature: Range{25, 45},
		Humidity:    Range{20, 60},
		Weight:      Range{10, 51},
	}
	for i := 0; i < 500; i++ {
		m, err := src.Measure(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.True(t, m.Temperature >= 25 && m.Temperature < 45)
		assert.True(t, m.Humidity >= 20 && m.Humidity < 60)
		assert.True(t, m.Weight >= 10 && m.Weight < 51)
	}
}

func TestPickers(t *testing.T) {
	sensors := []*models.Sensor{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}
	assert.Equal(t, "s1", FirstPicker{}.Pick(sensors).ID)
	for i := 0; i < 50; i++ {
		id := RandomPicker{}.Pick(sensors).ID
		assert.True(t, strings.HasPrefix(id, "s"))
	}
	assert.IsType(t, FirstPicker{}, PickerFor("first"))
	assert.IsType(t, RandomPicker{}, PickerFor("random"))
}
