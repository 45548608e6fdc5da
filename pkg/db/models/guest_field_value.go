package models

// GuestFieldValue is the overflow store: one value per (guest, field)
// pair for custom fields that did not fit an inline slot.
type GuestFieldValue struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	GuestID       int64   `gorm:"column:guest_id;not null;uniqueIndex:uq_guest_field,priority:1"`
	CustomFieldID int64   `gorm:"column:custom_field_id;not null;uniqueIndex:uq_guest_field,priority:2"`
	Value         *string `gorm:"column:value"`
}
