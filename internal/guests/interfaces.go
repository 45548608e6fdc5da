package guests

import (
	"context"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/pagination"
	"gorm.io/gorm"
)

// ContactSignals carries the identity hints of one spreadsheet row or
// API request used for duplicate matching.
type ContactSignals struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// Repository defines persistence operations for guests and their custom
// field definitions/values.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, guest *models.Guest) (*models.Guest, error)
	Save(ctx context.Context, guest *models.Guest) error
	FindByID(ctx context.Context, id int64) (*models.Guest, error)
	ListByEvent(ctx context.Context, eventID int64, params pagination.Params) (*GuestPage, error)
	CountByEvent(ctx context.Context, eventID int64) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error

	// FindByEventAndIDNumber matches on the stored value or its
	// digit-normalized form. The scan is application-side because
	// historical records may hold unnormalized identifiers.
	FindByEventAndIDNumber(ctx context.Context, eventID int64, idNumber string) (*models.Guest, error)
	// FindByNameAndContact applies the name+phone/email matching rule:
	// exact first+last name plus a normalized-phone or case-insensitive
	// email hit. Ambiguity resolves to no-spouse first, then lowest id.
	FindByNameAndContact(ctx context.Context, eventID int64, signals ContactSignals) (*models.Guest, error)

	FindOrCreateCustomField(ctx context.Context, eventID int64, name string) (*models.GuestCustomField, error)
	ListCustomFields(ctx context.Context, eventID int64) ([]models.GuestCustomField, error)
	UpsertFieldValue(ctx context.Context, guestID, customFieldID int64, value string) error
	DeleteFieldValue(ctx context.Context, guestID, customFieldID int64) error
	ListFieldValues(ctx context.Context, guestID int64) ([]models.GuestFieldValue, error)
}
