package models

import (
	"time"

	"github.com/mirevents/eventdesk/pkg/enums"
)

// GuestCustomField registers one dynamic column name for an event. Slot
// assignment is positional: fields ordered by (sort_order, id) occupy
// inline slots 1..GuestInlineSlots, and the remainder overflow into
// guest_field_values.
type GuestCustomField struct {
	ID        int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	EventID   int64                 `gorm:"column:event_id;not null;uniqueIndex:uq_event_field,priority:1"`
	Name      string                `gorm:"column:name;not null;uniqueIndex:uq_event_field,priority:2"`
	FieldType enums.CustomFieldType `gorm:"column:field_type;not null;default:text"`
	FormKey   *string               `gorm:"column:form_key"`
	SortOrder int                   `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
