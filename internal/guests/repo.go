package guests

import (
	"context"
	"errors"
	"strings"

	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a guests repository bound to the provided DB.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, guest *models.Guest) (*models.Guest, error) {
	if err := r.db.WithContext(ctx).Create(guest).Error; err != nil {
		return nil, err
	}
	return guest, nil
}

func (r *repository) Save(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Save(guest).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GuestPage wraps one page of guests plus the next cursor.
type GuestPage struct {
	Guests     []models.Guest
	NextCursor string
}

func (r *repository) ListByEvent(ctx context.Context, eventID int64, params pagination.Params) (*GuestPage, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Limit(limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at > ?) OR (created_at = ? AND id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Guest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	page := &GuestPage{}
	pageSize := pagination.NormalizeLimit(params.Limit)
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Guests = rows
	return page, nil
}

func (r *repository) CountByEvent(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindByEventAndIDNumber(ctx context.Context, eventID int64, idNumber string) (*models.Guest, error) {
	target := strings.TrimSpace(idNumber)
	if target == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND id_number = ?", eventID, target).
		First(&guest).Error
	if err == nil {
		return &guest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Historical records may hold unnormalized identifiers; compare the
	// digit-normalized forms application-side.
	normalizedTarget := NormalizeID(target)
	if normalizedTarget == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var candidates []models.Guest
	err = r.db.WithContext(ctx).
		Where("event_id = ? AND id_number IS NOT NULL", eventID).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		stored := candidates[i].IDNumber
		if stored == nil || IsSyntheticID(*stored) {
			continue
		}
		if NormalizeID(*stored) == normalizedTarget {
			return &candidates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *repository) FindByNameAndContact(ctx context.Context, eventID int64, signals ContactSignals) (*models.Guest, error) {
	first := strings.TrimSpace(signals.FirstName)
	last := strings.TrimSpace(signals.LastName)
	if first == "" || last == "" {
		return nil, gorm.ErrRecordNotFound
	}

	phoneNorm := NormalizePhone(signals.Phone)
	emailNorm := strings.ToLower(strings.TrimSpace(signals.Email))
	hasPhone := len(phoneNorm) >= 7
	hasEmail := emailNorm != "" && strings.Contains(emailNorm, "@")
	if !hasPhone && !hasEmail {
		return nil, gorm.ErrRecordNotFound
	}

	var candidates []models.Guest
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND first_name = ? AND last_name = ?", eventID, first, last).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	var matches []*models.Guest
	for i := range candidates {
		guest := &candidates[i]
		if hasPhone && guestHasPhone(guest, phoneNorm) {
			matches = append(matches, guest)
			continue
		}
		if hasEmail && guestHasEmail(guest, emailNorm) {
			matches = append(matches, guest)
		}
	}
	if len(matches) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	// Prefer a guest without a spouse reference; candidates are already
	// ordered by id, so the first hit is the deterministic tie-break.
	for _, guest := range matches {
		if guest.SpouseName == nil || strings.TrimSpace(*guest.SpouseName) == "" {
			return guest, nil
		}
	}
	return matches[0], nil
}

func guestHasPhone(guest *models.Guest, normalizedTarget string) bool {
	for _, phone := range guest.PhoneCandidates() {
		if phone == nil {
			continue
		}
		if norm := NormalizePhone(*phone); norm != "" && norm == normalizedTarget {
			return true
		}
	}
	return false
}

func guestHasEmail(guest *models.Guest, normalizedTarget string) bool {
	for _, email := range []*string{guest.Email, guest.Email2} {
		if email == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(*email)) == normalizedTarget {
			return true
		}
	}
	return false
}

func (r *repository) FindOrCreateCustomField(ctx context.Context, eventID int64, name string) (*models.GuestCustomField, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, errors.New("custom field name required")
	}

	var field models.GuestCustomField
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND name = ?", eventID, trimmed).
		First(&field).Error
	if err == nil {
		return &field, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var maxOrder int
	row := r.db.WithContext(ctx).
		Model(&models.GuestCustomField{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(MAX(sort_order), -1)").
		Row()
	if err := row.Scan(&maxOrder); err != nil {
		return nil, err
	}

	field = models.GuestCustomField{
		EventID:   eventID,
		Name:      trimmed,
		SortOrder: maxOrder + 1,
	}
	if err := r.db.WithContext(ctx).Create(&field).Error; err != nil {
		// Another worker may have created the same field concurrently.
		if db.IsUniqueViolation(err, "") {
			var existing models.GuestCustomField
			if ferr := r.db.WithContext(ctx).
				Where("event_id = ? AND name = ?", eventID, trimmed).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &field, nil
}

func (r *repository) ListCustomFields(ctx context.Context, eventID int64) ([]models.GuestCustomField, error) {
	var fields []models.GuestCustomField
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sort_order ASC, id ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *repository) UpsertFieldValue(ctx context.Context, guestID, customFieldID int64, value string) error {
	var existing models.GuestFieldValue
	err := r.db.WithContext(ctx).
		Where("guest_id = ? AND custom_field_id = ?", guestID, customFieldID).
		First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).
			Model(&models.GuestFieldValue{}).
			Where("id = ?", existing.ID).
			Update("value", value).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := models.GuestFieldValue{
		GuestID:       guestID,
		CustomFieldID: customFieldID,
		Value:         &value,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return r.db.WithContext(ctx).
				Model(&models.GuestFieldValue{}).
				Where("guest_id = ? AND custom_field_id = ?", guestID, customFieldID).
				Update("value", value).Error
		}
		return err
	}
	return nil
}

func (r *repository) DeleteFieldValue(ctx context.Context, guestID, customFieldID int64) error {
	return r.db.WithContext(ctx).
		Where("guest_id = ? AND custom_field_id = ?", guestID, customFieldID).
		Delete(&models.GuestFieldValue{}).Error
}

func (r *repository) ListFieldValues(ctx context.Context, guestID int64) ([]models.GuestFieldValue, error) {
	var values []models.GuestFieldValue
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("custom_field_id ASC").
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
