// FilePath: server/apiary/internal/models/models.hive.go
package models

import "time"

type Hive struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HiveOverview pairs a hive with its most recent reading, if any.
type HiveOverview struct {
	Hive          *Hive    `json:"hive"`
	LatestReading *Reading `json:"latest_reading,omitempty"`
}

// HiveRef is the minimal hive shape used for selection lists.
type HiveRef struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
