// FilePath: server/apiary/internal/models/models.reading.go
package models

import "time"

// Status is the binary outcome of threshold evaluation.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusCritical Status = "critical"
)

// AlertLevel only has a critical tier in practice.
type AlertLevel string

const (
	AlertLevelCritical AlertLevel = "critical"
)

// Measurements is the value tuple produced by a reading source.
type Measurements struct {
	Temperature float64 `json:"temperature" db:"temperature"`
	Humidity    float64 `json:"humidity" db:"humidity"`
	Weight      float64 `json:"weight" db:"weight"`
}

// Reading is append-only.
type Reading struct {
	ID       string `json:"id" db:"id"`
	HiveID   string `json:"hive_id" db:"hive_id"`
	SensorID string `json:"sensor_id" db:"sensor_id"`
	Measurements
	Status     Status    `json:"status" db:"status"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

type Alert struct {
	ID        string     `json:"id" db:"id"`
	HiveID    string     `json:"hive_id" db:"hive_id"`
	ReadingID *string    `json:"reading_id,omitempty" db:"reading_id"`
	Message   string     `json:"message" db:"message"`
	Level     AlertLevel `json:"level" db:"level"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// AlertView is an alert with the hive name resolved.
type AlertView struct {
	Alert
	HiveName string `json:"hive_name" db:"hive_name"`
}

// IngestResult is what a simulated ingestion reports back.
type IngestResult struct {
	Reading      *Reading `json:"reading"`
	Status       Status   `json:"status"`
	AlertCreated bool     `json:"alert_created"`
	Alert        *Alert   `json:"alert,omitempty"`
}
