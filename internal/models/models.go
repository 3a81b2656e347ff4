package models

import "time"

// Release records one process start of the service. The ledger lets the
// pipeline confirm which build is live in which environment.
type Release struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Version     string    `gorm:"column:version;size:64;index;not null" json:"version"`
	CommitHash  string    `gorm:"column:commit_hash;size:64" json:"commit_hash"`
	Environment string    `gorm:"column:environment;size:64;index;not null" json:"environment"`
	Hostname    string    `gorm:"column:hostname;size:255" json:"hostname"`
	StartedAt   time.Time `gorm:"column:started_at;index;not null" json:"started_at"`
}

func (Release) TableName() string {
	return "releases"
}
