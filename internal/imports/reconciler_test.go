package imports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn}, true, nil)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(
		&models.Event{},
		&models.Guest{},
		&models.GuestCustomField{},
		&models.GuestFieldValue{},
		&models.ImportJob{},
		&models.CatalogColumn{},
	))
	return client
}

func newReconcilerEnv(t *testing.T) (*db.Client, guests.Repository, *Reconciler) {
	t.Helper()
	client := newTestClient(t)
	guestRepo := guests.NewRepository(client.DB())
	reconciler, err := NewReconciler(client, guestRepo, testLogger())
	require.NoError(t, err)
	return client, guestRepo, reconciler
}

func makeRows(header []string, records ...[]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, buildRow(len(rows), header, record))
	}
	return rows
}

func countGuests(t *testing.T, repo guests.Repository, eventID int64) int64 {
	t.Helper()
	n, err := repo.CountByEvent(context.Background(), eventID)
	require.NoError(t, err)
	return n
}

func TestReconcile_CreatesGuestsAndSynthesizesIDs(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז", "טלפון"}
	rows := makeRows(header,
		[]string{"דוד", "כהן", "203458762", "0521111111"},
		[]string{"שרה", "לוי", "", "0522222222"},
		[]string{"יעקב", "מזרחי", "305112358", "0523333333"},
	)

	result := reconciler.Reconcile(ctx, 1, 9, header, rows)
	assert.Equal(t, 3, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.EqualValues(t, 3, countGuests(t, guestRepo, 1))

	// Row 1 had no identifier: deterministic synthetic id from its
	// absolute position.
	synthetic, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "TEMP-1-9-1")
	require.NoError(t, err)
	assert.Equal(t, "שרה", synthetic.FirstName)

	real, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	assert.Equal(t, "דוד", real.FirstName)
}

func TestReconcile_MissingNamesGetPlaceholders(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז"}
	rows := makeRows(header, []string{"", "", "203458762"})

	result := reconciler.Reconcile(ctx, 1, 1, header, rows)
	require.Equal(t, 1, result.Success)

	guest, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	assert.Equal(t, "ללא שם", guest.FirstName)
	assert.Equal(t, "ללא שם משפחה", guest.LastName)
}

func TestReconcile_ReimportIsIdempotent(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז", "טלפון", "עיר"}
	rows := makeRows(header,
		[]string{"דוד", "כהן", "203458762", "0521111111", ""},
		[]string{"שרה", "לוי", "", "0522222222", ""},
	)

	first := reconciler.Reconcile(ctx, 1, 5, header, rows)
	require.Equal(t, 2, first.Success)
	require.EqualValues(t, 2, countGuests(t, guestRepo, 1))

	// Same file, new job: the identifier row matches by id, the
	// synthetic row matches by name+phone. No new guests.
	rerun := makeRows(header,
		[]string{"דוד", "כהן", "203458762", "0521111111", "ירושלים"},
		[]string{"שרה", "לוי", "", "0522222222", "בני ברק"},
	)
	second := reconciler.Reconcile(ctx, 1, 6, header, rerun)
	assert.Equal(t, 2, second.Success)
	assert.Equal(t, 0, second.Failed)
	assert.EqualValues(t, 2, countGuests(t, guestRepo, 1))

	// The synthetic identifier from the first job is retained, not
	// rewritten to the second job's position.
	kept, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "TEMP-1-5-1")
	require.NoError(t, err)
	assert.Equal(t, "שרה", kept.FirstName)
	require.NotNil(t, kept.City)
	assert.Equal(t, "בני ברק", *kept.City)
}

func TestReconcile_NeverRegressesPopulatedFields(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז", "אימייל", "עיר"}
	initial := makeRows(header, []string{"דוד", "כהן", "203458762", "david@example.com", "ירושלים"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, initial).Success)

	// Re-import with the email and city cells blank.
	update := makeRows(header, []string{"דוד", "כהן", "203458762", "", ""})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 2, header, update).Success)

	guest, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	require.NotNil(t, guest.Email)
	assert.Equal(t, "david@example.com", *guest.Email)
	require.NotNil(t, guest.City)
	assert.Equal(t, "ירושלים", *guest.City)
}

func TestReconcile_SyntheticUpgradeRequiresContactMatch(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז", "טלפון"}
	noID := makeRows(header, []string{"דוד", "כהן", "", "0521111111"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, noID).Success)

	// Same person now arrives with a real identifier and a matching
	// phone: the synthetic id is upgraded in place.
	withID := makeRows(header, []string{"דוד", "כהן", "203458762", "0521111111"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 2, header, withID).Success)

	assert.EqualValues(t, 1, countGuests(t, guestRepo, 1))
	upgraded, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	assert.Equal(t, "דוד", upgraded.FirstName)
}

func TestReconcile_DuplicateIDDifferentPersonIsError(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז"}
	first := makeRows(header, []string{"דוד", "כהן", "203458762"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, first).Success)

	// Entirely different name, colliding identifier, no contact
	// corroboration: logged as a data error, not merged.
	collider := makeRows(header, []string{"יוסי", "מזרחי", "203458762"})
	result := reconciler.Reconcile(ctx, 1, 2, header, collider)
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Err, "duplicate identifier")

	existing, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	assert.Equal(t, "דוד", existing.FirstName)
}

func TestReconcile_SerialReplayMergesInBatchCollision(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	// Two rows for the same person carrying the same identifier inside
	// one batch: the batch commit collides, the replay merges.
	header := []string{"שם פרטי", "שם משפחה", "תז", "עיר"}
	rows := makeRows(header,
		[]string{"דוד", "כהן", "203458762", "ירושלים"},
		[]string{"דוד", "כהן", "203458762", "בני ברק"},
	)

	result := reconciler.Reconcile(ctx, 1, 1, header, rows)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.EqualValues(t, 1, countGuests(t, guestRepo, 1))

	merged, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	require.NotNil(t, merged.City)
	assert.Equal(t, "בני ברק", *merged.City)
}

func TestReconcile_SerialReplayIsolatesBadRow(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז"}
	rows := makeRows(header,
		[]string{"דוד", "כהן", "203458762"},
		[]string{"יוסי", "מזרחי", "203-458-762"},
		[]string{"שרה", "לוי", "305112358"},
	)

	result := reconciler.Reconcile(ctx, 1, 1, header, rows)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "יוסי", result.Errors[0].Row["שם פרטי"])
	assert.EqualValues(t, 2, countGuests(t, guestRepo, 1))
}

func TestReconcile_DynamicFieldRouting(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז"}
	for i := 1; i <= 17; i++ {
		header = append(header, fmt.Sprintf("שדה %d", i))
	}
	record := []string{"דוד", "כהן", "203458762"}
	for i := 1; i <= 17; i++ {
		record = append(record, fmt.Sprintf("ערך %d", i))
	}
	rows := makeRows(header, record)

	result := reconciler.Reconcile(ctx, 1, 1, header, rows)
	require.Equal(t, 1, result.Success)

	guest, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)

	// First 15 custom columns fill the inline slots in file order.
	require.NotNil(t, guest.CustomField1)
	assert.Equal(t, "ערך 1", *guest.CustomField1)
	require.NotNil(t, guest.CustomField15)
	assert.Equal(t, "ערך 15", *guest.CustomField15)

	// Columns 16 and 17 overflow into the key-value store.
	values, err := guestRepo.ListFieldValues(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, values, 2)

	fields, err := guestRepo.ListCustomFields(ctx, 1)
	require.NoError(t, err)
	require.Len(t, fields, 17)
	assert.Equal(t, "שדה 1", fields[0].Name)
	assert.Equal(t, "שדה 17", fields[16].Name)
}

func TestReconcile_SlotAssignmentStableAcrossImports(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	first := []string{"שם פרטי", "שם משפחה", "תז", "הסעה", "שולחן"}
	rows := makeRows(first, []string{"דוד", "כהן", "203458762", "אשדוד", "12"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, first, rows).Success)

	// Second file lists the custom columns in the opposite order; each
	// field still writes to the slot it already owns.
	second := []string{"שם פרטי", "שם משפחה", "תז", "שולחן", "הסעה"}
	rerun := makeRows(second, []string{"דוד", "כהן", "203458762", "14", "בני ברק"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 2, second, rerun).Success)

	guest, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	require.NotNil(t, guest.CustomField1)
	assert.Equal(t, "בני ברק", *guest.CustomField1)
	require.NotNil(t, guest.CustomField2)
	assert.Equal(t, "14", *guest.CustomField2)
}

func TestReconcile_TypedAttributeConversion(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	header := []string{"שם פרטי", "שם משפחה", "תז", "גיל", "האם הוק פעיל", "תאריך לידה", "סכום תשלום אחרון"}
	rows := makeRows(header, []string{"דוד", "כהן", "203458762", "42", "כן", "15/03/1982", "1,200"})
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, rows).Success)

	guest, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "203458762")
	require.NoError(t, err)
	require.NotNil(t, guest.Age)
	assert.Equal(t, 42, *guest.Age)
	require.NotNil(t, guest.IsHokActive)
	assert.True(t, *guest.IsHokActive)
	require.NotNil(t, guest.BirthDate)
	assert.Equal(t, 1982, guest.BirthDate.Year())
	require.NotNil(t, guest.LastPaymentAmount)
	assert.Equal(t, "1200", *guest.LastPaymentAmount)
}

func TestReconcile_SyntheticIDUsesAbsoluteRowIndex(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	// Three rows committed as two batches, the identifier-less row last.
	// Its synthetic id must embed the file position, not a batch-relative
	// one, so changing the batch size never shifts identity.
	header := []string{"שם פרטי", "שם משפחה", "תז", "טלפון"}
	rows := makeRows(header,
		[]string{"דוד", "כהן", "203458762", "0521111111"},
		[]string{"שרה", "לוי", "305112358", "0522222222"},
		[]string{"יעקב", "מזרחי", "", "0523333333"},
	)

	require.Equal(t, 2, reconciler.Reconcile(ctx, 1, 1, header, rows[:2]).Success)
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, rows[2:]).Success)

	synthetic, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "TEMP-1-1-2")
	require.NoError(t, err)
	assert.Equal(t, "יעקב", synthetic.FirstName)
}

func TestReconcile_OverlappingJobsConvergeToOneGuestPerIdentity(t *testing.T) {
	_, guestRepo, reconciler := newReconcilerEnv(t)
	ctx := context.Background()

	// Two jobs over overlapping guest sets, batches interleaved the way
	// two workers would race: every shared identity must end up as one
	// guest record, not two.
	header := []string{"שם פרטי", "שם משפחה", "תז", "טלפון", "עיר"}
	jobA := makeRows(header,
		[]string{"דוד", "כהן", "203458762", "0521111111", "ירושלים"},
		[]string{"שרה", "לוי", "305112358", "0522222222", ""},
	)
	jobB := makeRows(header,
		[]string{"שרה", "לוי", "305112358", "0522222222", "בני ברק"},
		[]string{"יעקב", "מזרחי", "", "0523333333", ""},
	)

	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, jobA[:1]).Success)
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 2, header, jobB[:1]).Success)
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 1, header, jobA[1:]).Success)
	require.Equal(t, 1, reconciler.Reconcile(ctx, 1, 2, header, jobB[1:]).Success)

	assert.EqualValues(t, 3, countGuests(t, guestRepo, 1))

	shared, err := guestRepo.FindByEventAndIDNumber(ctx, 1, "305112358")
	require.NoError(t, err)
	assert.Equal(t, "שרה", shared.FirstName)
	require.NotNil(t, shared.City)
	assert.Equal(t, "בני ברק", *shared.City)
}
