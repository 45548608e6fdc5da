package imports

import (
	"context"
	"errors"

	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/pkg/db/models"
	"gorm.io/gorm"
)

// RowSignals carries the identity hints extracted from one spreadsheet
// row.
type RowSignals struct {
	RawID     string
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// Matcher resolves a row's signals to an existing guest via the cascade:
// normalized identifier first, then exact name plus a verified phone or
// email. ByContact reports which path hit, because the reconciler's
// identifier-upgrade rule only trusts the name/contact path.
type Matcher struct {
	guests guests.Repository
}

func NewMatcher(repo guests.Repository) *Matcher {
	return &Matcher{guests: repo}
}

// Match returns the matched guest or nil. A nil guest with a nil error
// means the caller should create a new record.
func (m *Matcher) Match(ctx context.Context, eventID int64, signals RowSignals) (guest *models.Guest, byContact bool, err error) {
	if guests.UsableID(signals.RawID) {
		found, err := m.guests.FindByEventAndIDNumber(ctx, eventID, signals.RawID)
		if err == nil {
			return found, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	found, err := m.guests.FindByNameAndContact(ctx, eventID, guests.ContactSignals{
		FirstName: signals.FirstName,
		LastName:  signals.LastName,
		Phone:     signals.Phone,
		Email:     signals.Email,
	})
	if err == nil {
		return found, true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	return nil, false, err
}
