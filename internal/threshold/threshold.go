// Package threshold classifies readings as normal or critical.
package threshold

import (
	"github.com/itsatony/w4b_v3/server/apiary/internal/config"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

// Safe operating envelope. Values strictly outside trigger critical.
const (
	TemperatureMin = 15.0
	TemperatureMax = 40.0
	HumidityMin    = 30.0
	HumidityMax    = 80.0
	WeightMin      = 15.0
	WeightMax      = 45.0
)

// Thresholds is an envelope of inclusive bounds.
type Thresholds struct {
	TemperatureMin float64
	TemperatureMax float64
	HumidityMin    float64
	HumidityMax    float64
	WeightMin      float64
	WeightMax      float64
}

// Default returns the built-in envelope.
func Default() Thresholds {
	return Thresholds{
		TemperatureMin: TemperatureMin,
		TemperatureMax: TemperatureMax,
		HumidityMin:    HumidityMin,
		HumidityMax:    HumidityMax,
		WeightMin:      WeightMin,
		WeightMax:      WeightMax,
	}
}

// FromConfig builds thresholds from configuration.
func FromConfig(cfg config.ThresholdConfig) Thresholds {
	return Thresholds{
		TemperatureMin: cfg.TemperatureMin,
		TemperatureMax: cfg.TemperatureMax,
		HumidityMin:    cfg.HumidityMin,
		HumidityMax:    cfg.HumidityMax,
		WeightMin:      cfg.WeightMin,
		WeightMax:      cfg.WeightMax,
	}
}

// Evaluate is pure. Boundary values are normal.
func (t Thresholds) Evaluate(m models.Measurements) models.Status {
	if outside(m.Temperature, t.TemperatureMin, t.TemperatureMax) ||
		outside(m.Humidity, t.HumidityMin, t.HumidityMax) ||
		outside(m.Weight, t.WeightMin, t.WeightMax) {
		return models.StatusCritical
	}
	return models.StatusNormal
}

// Evaluate applies the default envelope.
func Evaluate(m models.Measurements) models.Status {
	return Default().Evaluate(m)
}

func outside(v, lo, hi float64) bool {
	return v < lo || v > hi
}
