package model

import (
	"time"
)

// MigrationVersion records an applied schema migration
type MigrationVersion struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Version   string    `gorm:"type:varchar(20);not null;index"`
	AppliedAt time.Time `gorm:"not null"`
	Details   string    `gorm:"type:text"`
}

// TableName specifies the table name for the migration version model
func (MigrationVersion) TableName() string {
	return "migration_versions"
}
