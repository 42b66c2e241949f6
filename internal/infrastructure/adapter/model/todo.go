package model

import (
	"time"
)

// Todo represents the database model for todo items
type Todo struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"not null;size:255"`
	Completed bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Todo
func (Todo) TableName() string {
	return "todos"
}
