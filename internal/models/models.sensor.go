// FilePath: server/apiary/internal/models/models.sensor.go
package models

import (
	"strings"
	"time"
)

type SensorType string

const (
	SensorTypeCombined    SensorType = "combined"
	SensorTypeTemperature SensorType = "temperature"
	SensorTypeHumidity    SensorType = "humidity"
	SensorTypeWeight      SensorType = "weight"
)

// ParseSensorType accepts the four known types, case-insensitively.
func ParseSensorType(s string) (SensorType, bool) {
	switch t := SensorType(strings.ToLower(strings.TrimSpace(s))); t {
	case SensorTypeCombined, SensorTypeTemperature, SensorTypeHumidity, SensorTypeWeight:
		return t, true
	}
	return "", false
}

type Sensor struct {
	ID           string     `json:"id" db:"id"`
	HiveID       string     `json:"hive_id" db:"hive_id"`
	SerialNumber string     `json:"serial_number" db:"serial_number"`
	Type         SensorType `json:"type" db:"type"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// SensorView is a sensor joined with its hive for the owner's sensor list.
type SensorView struct {
	Sensor
	HiveName     string `json:"hive_name" db:"hive_name"`
	HiveLocation string `json:"hive_location" db:"hive_location"`
}
