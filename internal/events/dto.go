package events

import "time"

// CreateEventInput captures the fields required to register a new event.
type CreateEventInput struct {
	Name     string    `json:"name" validate:"required,min=1,max=200"`
	Type     string    `json:"type" validate:"required,min=1,max=100"`
	Date     time.Time `json:"date" validate:"required"`
	Location string    `json:"location" validate:"required,min=1,max=300"`
}

// EventSummary is the API shape of one event.
type EventSummary struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
}
