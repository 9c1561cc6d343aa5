package ingest

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/itsatony/w4b_v3/server/apiary/internal/config"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

// SensorPicker chooses which of a hive's sensors produces the reading.
// sensors is never empty.
type SensorPicker interface {
	Pick(sensors []*models.Sensor) *models.Sensor
}

// RandomPicker picks uniformly.
type RandomPicker struct{}

func (RandomPicker) Pick(sensors []*models.Sensor) *models.Sensor {
	return sensors[rand.IntN(len(sensors))]
}

// FirstPicker always picks the earliest registered sensor.
type FirstPicker struct{}

func (FirstPicker) Pick(sensors []*models.Sensor) *models.Sensor {
	return sensors[0]
}

// PickerFor maps the configured selection name to a picker.
func PickerFor(name string) SensorPicker {
	if name == "first" {
		return FirstPicker{}
	}
	return RandomPicker{}
}

// ReadingSource yields the measurement tuple for one reading.
type ReadingSource interface {
	Measure(ctx context.Context, hive *models.Hive, sensor *models.Sensor) (models.Measurements, error)
}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float64
	Max float64
}

func (r Range) sample(decimals int) float64 {
	v := r.Min + rand.Float64()*(r.Max-r.Min)
	p := math.Pow(10, float64(decimals))
	return math.Floor(v*p) / p
}

// SimulatedSource draws values uniformly from fixed ranges.
type SimulatedSource struct {
	Temperature Range
	Humidity    Range
	Weight      Range
}

// NewSimulatedSource builds a source from configuration.
func NewSimulatedSource(cfg config.SimulationConfig) *SimulatedSource {
	return &SimulatedSource{
		Temperature: Range{cfg.TemperatureMin, cfg.TemperatureMax},
		Humidity:    Range{cfg.HumidityMin, cfg.HumidityMax},
		Weight:      Range{cfg.WeightMin, cfg.WeightMax},
	}
}

func (s *SimulatedSource) Measure(_ context.Context, _ *models.Hive, _ *models.Sensor) (models.Measurements, error) {
	return models.Measurements{
		Temperature: s.Temperature.sample(1),
		Humidity:    s.Humidity.sample(1),
		Weight:      s.Weight.sample(2),
	}, nil
}

// FixedSource returns the same tuple every time.
type FixedSource models.Measurements

func (f FixedSource) Measure(_ context.Context, _ *models.Hive, _ *models.Sensor) (models.Measurements, error) {
	return models.Measurements(f), nil
}
