package guests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Event{},
		&models.Guest{},
		&models.GuestCustomField{},
		&models.GuestFieldValue{},
	))
	return conn
}

func strPtr(s string) *string { return &s }

func seedGuest(t *testing.T, repo Repository, guest *models.Guest) *models.Guest {
	t.Helper()
	created, err := repo.Create(context.Background(), guest)
	require.NoError(t, err)
	return created
}

func TestRepository_FindByEventAndIDNumber(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	exact := seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "דוד", LastName: "כהן", IDNumber: strPtr("203458762"),
	})
	dashed := seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "שרה", LastName: "לוי", IDNumber: strPtr("305-112-358"),
	})
	seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "Temp", LastName: "Row", IDNumber: strPtr("TEMP-1-7-3"),
	})
	seedGuest(t, repo, &models.Guest{
		EventID: 2, FirstName: "דוד", LastName: "כהן", IDNumber: strPtr("203458762"),
	})

	found, err := repo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	assert.Equal(t, exact.ID, found.ID)

	// Normalized comparison catches stored values with separators.
	found, err = repo.FindByEventAndIDNumber(ctx, 1, "305112358")
	require.NoError(t, err)
	assert.Equal(t, dashed.ID, found.ID)

	// And incoming values with separators against clean stored values.
	found, err = repo.FindByEventAndIDNumber(ctx, 1, "203-458-762")
	require.NoError(t, err)
	assert.Equal(t, exact.ID, found.ID)

	_, err = repo.FindByEventAndIDNumber(ctx, 1, "999999999")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Synthetic identifiers never participate in normalized matching.
	_, err = repo.FindByEventAndIDNumber(ctx, 1, "173")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_FindByNameAndContact(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	byPhone := seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "יעקב", LastName: "מזרחי",
		MobilePhone: strPtr("052-1234567"),
	})
	byEmail := seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "רחל", LastName: "פרץ",
		Email: strPtr("Rachel@Example.com"),
	})

	found, err := repo.FindByNameAndContact(ctx, 1, ContactSignals{
		FirstName: "יעקב", LastName: "מזרחי", Phone: "+972521234567",
	})
	require.NoError(t, err)
	assert.Equal(t, byPhone.ID, found.ID)

	found, err = repo.FindByNameAndContact(ctx, 1, ContactSignals{
		FirstName: "רחל", LastName: "פרץ", Email: "rachel@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, found.ID)

	// Same name, wrong contact: no match.
	_, err = repo.FindByNameAndContact(ctx, 1, ContactSignals{
		FirstName: "יעקב", LastName: "מזרחי", Phone: "050-0000000",
	})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Phone shorter than seven digits is not a usable signal.
	_, err = repo.FindByNameAndContact(ctx, 1, ContactSignals{
		FirstName: "יעקב", LastName: "מזרחי", Phone: "123",
	})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_FindByNameAndContact_PrefersNoSpouse(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "משה", LastName: "כץ",
		MobilePhone: strPtr("0521111111"), SpouseName: strPtr("רבקה"),
	})
	single := seedGuest(t, repo, &models.Guest{
		EventID: 1, FirstName: "משה", LastName: "כץ",
		HomePhone: strPtr("0521111111"),
	})

	found, err := repo.FindByNameAndContact(ctx, 1, ContactSignals{
		FirstName: "משה", LastName: "כץ", Phone: "0521111111",
	})
	require.NoError(t, err)
	assert.Equal(t, single.ID, found.ID)
}

func TestRepository_ListByEvent_Pagination(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedGuest(t, repo, &models.Guest{
			EventID: 1, FirstName: fmt.Sprintf("Guest%d", i), LastName: "Test",
		})
	}

	page, err := repo.ListByEvent(ctx, 1, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Guests, 3)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.ListByEvent(ctx, 1, pagination.Params{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Guests, 2)
	assert.Empty(t, rest.NextCursor)
	assert.NotEqual(t, page.Guests[2].ID, rest.Guests[0].ID)

	count, err := repo.CountByEvent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestRepository_CustomFields(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.FindOrCreateCustomField(ctx, 1, "קבוצת ישיבה")
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)

	second, err := repo.FindOrCreateCustomField(ctx, 1, "הערות הסעה")
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder)

	// Finding the same name again returns the existing row.
	again, err := repo.FindOrCreateCustomField(ctx, 1, "קבוצת ישיבה")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	fields, err := repo.ListCustomFields(ctx, 1)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, first.ID, fields[0].ID)
	assert.Equal(t, second.ID, fields[1].ID)

	// A different event keeps its own numbering.
	other, err := repo.FindOrCreateCustomField(ctx, 2, "קבוצת ישיבה")
	require.NoError(t, err)
	assert.Equal(t, 0, other.SortOrder)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestRepository_FieldValues(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	guest := seedGuest(t, repo, &models.Guest{EventID: 1, FirstName: "א", LastName: "ב"})
	field, err := repo.FindOrCreateCustomField(ctx, 1, "שולחן")
	require.NoError(t, err)

	require.NoError(t, repo.UpsertFieldValue(ctx, guest.ID, field.ID, "12"))
	require.NoError(t, repo.UpsertFieldValue(ctx, guest.ID, field.ID, "14"))

	values, err := repo.ListFieldValues(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.NotNil(t, values[0].Value)
	assert.Equal(t, "14", *values[0].Value)

	require.NoError(t, repo.DeleteFieldValue(ctx, guest.ID, field.ID))
	values, err = repo.ListFieldValues(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, values)
}
