package models

import "time"

// Event is the unit of isolation for guests, custom fields and imports.
type Event struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Type      string    `gorm:"column:type;not null"`
	Date      time.Time `gorm:"column:date;not null"`
	Location  string    `gorm:"column:location;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
