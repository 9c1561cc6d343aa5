// FilePath: server/apiary/internal/models/models.workflow.go
package models

import "time"

// Report is written by a beekeeper and addressed to one officer.
type Report struct {
	ID          string    `json:"id" db:"id"`
	BeekeeperID string    `json:"beekeeper_id" db:"beekeeper_id"`
	OfficerID   string    `json:"officer_id" db:"officer_id"`
	Message     string    `json:"message" db:"message"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Recommendation is written by an officer for one beekeeper. ReportID and
// ReadingID are weak references: they may dangle after the target is gone.
type Recommendation struct {
	ID                string    `json:"id" db:"id"`
	OfficerID         string    `json:"officer_id" db:"officer_id"`
	BeekeeperID       string    `json:"beekeeper_id" db:"beekeeper_id"`
	ReportID          *string   `json:"report_id,omitempty" db:"report_id"`
	ReadingID         *string   `json:"reading_id,omitempty" db:"reading_id"`
	Message           string    `json:"message" db:"message"`
	RelatedSensorData string    `json:"related_sensor_data" db:"related_sensor_data"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// SentReport is a report as listed for its beekeeper author.
type SentReport struct {
	Report
	OfficerName  string `json:"officer_name" db:"officer_name"`
	OfficerEmail string `json:"officer_email" db:"officer_email"`
}

// ReceivedReport is a report as listed for its officer recipient.
type ReceivedReport struct {
	Report
	BeekeeperName   string            `json:"beekeeper_name" db:"beekeeper_name"`
	BeekeeperEmail  string            `json:"beekeeper_email" db:"beekeeper_email"`
	Recommendations []*Recommendation `json:"recommendations" db:"-"`
}

// ReceivedRecommendation is listed for the beekeeper recipient. The
// measurements are nil when the referenced reading is gone.
type ReceivedRecommendation struct {
	Recommendation
	OfficerName  string   `json:"officer_name" db:"officer_name"`
	OfficerEmail string   `json:"officer_email" db:"officer_email"`
	Temperature  *float64 `json:"temperature,omitempty" db:"temperature"`
	Humidity     *float64 `json:"humidity,omitempty" db:"humidity"`
	Weight       *float64 `json:"weight,omitempty" db:"weight"`
}

// SentRecommendation is listed for the officer author.
type SentRecommendation struct {
	Recommendation
	BeekeeperName        string  `json:"beekeeper_name" db:"beekeeper_name"`
	BeekeeperEmail       string  `json:"beekeeper_email" db:"beekeeper_email"`
	RelatedReportMessage *string `json:"related_report_message,omitempty" db:"related_report_message"`
}

// ReportDraft is the input for creating or editing a report.
type ReportDraft struct {
	OfficerID string `json:"officer_id"`
	Message   string `json:"message"`
}

// RecommendationDraft is the input for creating or editing a recommendation.
type RecommendationDraft struct {
	BeekeeperID       string  `json:"beekeeper_id"`
	ReportID          *string `json:"report_id,omitempty"`
	ReadingID         *string `json:"reading_id,omitempty"`
	Message           string  `json:"message"`
	RelatedSensorData string  `json:"related_sensor_data"`
}
