// FilePath: server/apiary/internal/repository/repository.go
package repository

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

// Lookups by id return a not_found APIError when the row is missing.
// Callers that guard owned entities translate that into
// NOT_FOUND_OR_UNAUTHORIZED so existence never leaks.

// HiveRepository defines the interface for hive data operations
type HiveRepository interface {
	Create(ctx context.Context, hive *models.Hive) error
	Get(ctx context.Context, id string) (*models.Hive, error)
	Update(ctx context.Context, hive *models.Hive) error
	Delete(ctx context.Context, id string) error
	// ListByOwner returns the owner's hives ordered by name.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Hive, error)
}

// SensorRepository defines the interface for sensor data operations
type SensorRepository interface {
	Create(ctx context.Context, sensor *models.Sensor) error
	Get(ctx context.Context, id string) (*models.Sensor, error)
	GetBySerial(ctx context.Context, serial string) (*models.Sensor, error)
	Update(ctx context.Context, sensor *models.Sensor) error
	Delete(ctx context.Context, id string) error
	ListByHive(ctx context.Context, hiveID string) ([]*models.Sensor, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.SensorView, error)
}

// ReadingRepository holds the append-only measurement log.
type ReadingRepository interface {
	Insert(ctx context.Context, reading *models.Reading) error
	Get(ctx context.Context, id string) (*models.Reading, error)
	LatestByHive(ctx context.Context, hiveID string, limit int) ([]*models.Reading, error)
	LatestBySensor(ctx context.Context, sensorID string, limit int) ([]*models.Reading, error)
	LatestByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Reading, error)
	// DeleteBySensor removes a sensor's readings. Alerts that pointed at
	// them keep their hive and lose the reading link.
	DeleteBySensor(ctx context.Context, sensorID string) error
	DeleteByHive(ctx context.Context, hiveID string) error
}

// AlertRepository holds alerts derived from critical readings.
type AlertRepository interface {
	Insert(ctx context.Context, alert *models.Alert) error
	ListByHive(ctx context.Context, hiveID string) ([]*models.Alert, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.AlertView, error)
	DeleteByHive(ctx context.Context, hiveID string) error
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	// List returns every account, newest first.
	List(ctx context.Context) ([]*models.Account, error)
	ListOfficers(ctx context.Context) ([]*models.OfficerContact, error)
}

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id string) error
	ListSentBy(ctx context.Context, beekeeperID string, limit int) ([]*models.SentReport, error)
	ListReceivedBy(ctx context.Context, officerID string) ([]*models.ReceivedReport, error)
}

// RecommendationRepository defines the interface for recommendation data operations
type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	Get(ctx context.Context, id string) (*models.Recommendation, error)
	Update(ctx context.Context, rec *models.Recommendation) error
	Delete(ctx context.Context, id string) error
	ListByReport(ctx context.Context, reportID string) ([]*models.Recommendation, error)
	ListReceivedBy(ctx context.Context, beekeeperID string, limit int) ([]*models.ReceivedRecommendation, error)
	ListSentBy(ctx context.Context, officerID string, limit int) ([]*models.SentRecommendation, error)
}

// Store groups the repositories over one connection or one transaction.
type Store interface {
	Hives() HiveRepository
	Sensors() SensorRepository
	Readings() ReadingRepository
	Alerts() AlertRepository
	Accounts() AccountRepository
	Reports() ReportRepository
	Recommendations() RecommendationRepository

	// Transaction runs fn with a Store bound to one atomic unit. Any error
	// returned by fn, or a panic, rolls the whole unit back. Calling
	// Transaction on a transactional Store joins the running unit.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}
