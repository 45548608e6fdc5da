package guests

import (
	"time"

	"github.com/mirevents/eventdesk/pkg/enums"
)

// ListParams carries pagination inputs for the event guest list.
type ListParams struct {
	Limit  int
	Cursor string
}

// UpdateGuestInput captures the editable subset of a guest record. Nil
// fields are left untouched.
type UpdateGuestInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=200"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=200"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,min=5,max=30"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female unknown"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

// GuestSummary is the list-view shape of a guest.
type GuestSummary struct {
	ID               int64        `json:"id"`
	EventID          int64        `json:"event_id"`
	FirstName        string       `json:"first_name"`
	LastName         string       `json:"last_name"`
	IDNumber         *string      `json:"id_number,omitempty"`
	Email            *string      `json:"email,omitempty"`
	MobilePhone      *string      `json:"mobile_phone,omitempty"`
	Gender           enums.Gender `json:"gender"`
	ConfirmedArrival bool         `json:"confirmed_arrival"`
	CheckInTime      *time.Time   `json:"check_in_time,omitempty"`
}

// GuestDetail extends the summary with custom field values.
type GuestDetail struct {
	GuestSummary
	CustomFields map[string]string `json:"custom_fields"`
}

// GuestList wraps one page of guests plus the next page cursor.
type GuestList struct {
	Guests     []GuestSummary `json:"guests"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
