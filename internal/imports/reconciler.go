package imports

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/enums"
	"github.com/mirevents/eventdesk/pkg/logger"
	"gorm.io/gorm"
)

// Placeholder names keep rows with missing required fields importable; a
// visibly wrong name in the UI beats silently dropping a registration.
const (
	placeholderFirstName = "ללא שם"
	placeholderLastName  = "ללא שם משפחה"
)

// RowError records one failed input row for the downloadable error log.
type RowError struct {
	Row map[string]string
	Err string
}

// BatchResult sums one reconciled batch.
type BatchResult struct {
	Success int
	Failed  int
	Errors  []RowError
}

// Reconciler turns one batch of rows into guest creates/updates: match
// each row, stage field changes, commit the batch in one transaction,
// and degrade to row-by-row replay when a uniqueness collision surfaces
// at commit time.
type Reconciler struct {
	client  *db.Client
	guests  guests.Repository
	matcher *Matcher
	logg    *logger.Logger
}

func NewReconciler(client *db.Client, guestRepo guests.Repository, logg *logger.Logger) (*Reconciler, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if guestRepo == nil {
		return nil, fmt.Errorf("guests repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Reconciler{
		client:  client,
		guests:  guestRepo,
		matcher: NewMatcher(guestRepo),
		logg:    logg,
	}, nil
}

// stagedRow is one row resolved against storage but not yet committed.
type stagedRow struct {
	row      Row
	guest    *models.Guest
	isNew    bool
	overflow []overflowWrite
}

// Reconcile processes one batch of rows. Synthetic identifiers embed
// each row's Index, which the reader assigns as the absolute position in
// the whole file, so identity is stable across batch-size changes.
func (r *Reconciler) Reconcile(ctx context.Context, eventID, jobID int64, header []string, rows []Row) BatchResult {
	router, err := NewSlotRouter(ctx, r.guests, eventID)
	if err != nil {
		return failAll(rows, fmt.Sprintf("load custom fields: %v", err))
	}

	var result BatchResult
	staged := make([]*stagedRow, 0, len(rows))
	for _, row := range rows {
		entry, err := r.stageRow(ctx, router, eventID, jobID, header, row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: row.Values, Err: err.Error()})
			continue
		}
		staged = append(staged, entry)
	}

	// Fast path: every staged guest in one transaction.
	commitErr := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := r.guests.WithTx(tx)
		for _, entry := range staged {
			if entry.isNew {
				if _, err := repo.Create(ctx, entry.guest); err != nil {
					return err
				}
			} else if err := repo.Save(ctx, entry.guest); err != nil {
				return err
			}
		}
		return nil
	})

	switch {
	case commitErr == nil:
		result.Success += len(staged)
	case db.IsUniqueViolation(commitErr, ""):
		r.logg.Warn(ctx, "batch commit hit uniqueness violation, replaying rows serially")
		r.replaySerially(ctx, eventID, jobID, header, staged, &result)
	default:
		r.logg.Error(ctx, "batch commit failed", commitErr)
		for _, entry := range staged {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row: entry.row.Values,
				Err: fmt.Sprintf("save guest: %v", commitErr),
			})
		}
		return result
	}

	r.flushOverflow(ctx, staged)
	return result
}

// stageRow resolves a single row to a new or matched guest and stages
// its field updates. Nothing is written to guest rows here.
func (r *Reconciler) stageRow(ctx context.Context, router *SlotRouter, eventID, jobID int64, header []string, row Row) (*stagedRow, error) {
	signals := extractSignals(row)

	guest, byContact, err := r.matcher.Match(ctx, eventID, signals)
	if err != nil {
		return nil, fmt.Errorf("match row: %w", err)
	}
	if guest != nil && !byContact && !sameIdentity(guest, signals) {
		// An identifier hit against an entirely different person is a
		// data error, not a merge target.
		return nil, fmt.Errorf("duplicate identifier %q already belongs to another guest", signals.RawID)
	}

	isNew := guest == nil
	if isNew {
		identifier := resolveIdentifier(signals.RawID, eventID, jobID, row.Index)
		source := enums.RegistrationSourceImport
		guest = &models.Guest{
			EventID:            eventID,
			FirstName:          defaultIfEmpty(signals.FirstName, placeholderFirstName),
			LastName:           defaultIfEmpty(signals.LastName, placeholderLastName),
			Gender:             enums.ParseGender(row.Get(genderHeaderKeys...)),
			IDNumber:           &identifier,
			RegistrationSource: &source,
		}
	} else {
		r.maybeUpgradeIdentifier(guest, signals.RawID, byContact)
	}

	entry := &stagedRow{row: row, guest: guest, isNew: isNew}
	if err := r.applyColumns(ctx, router, entry, header); err != nil {
		return nil, err
	}
	return entry, nil
}

// applyColumns walks the file's columns in order: mapped headers write
// guest attributes directly, everything else goes through the slot
// router. A field-routing failure drops that one cell, not the row.
func (r *Reconciler) applyColumns(ctx context.Context, router *SlotRouter, entry *stagedRow, header []string) error {
	for _, key := range header {
		if key == "" {
			continue
		}
		raw, ok := entry.row.Values[key]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}

		if attr, mapped := MapHeader(key); mapped {
			if attr == enums.AttrIDNumber {
				continue
			}
			applyAttr(entry.guest, attr, raw)
			continue
		}

		res, err := router.Resolve(ctx, key)
		if err != nil {
			r.logg.Error(ctx, fmt.Sprintf("resolve custom field %q, dropping cell", key), err)
			continue
		}
		pending, err := router.Write(ctx, entry.guest, res, strings.TrimSpace(raw))
		if err != nil {
			r.logg.Error(ctx, fmt.Sprintf("stage custom field %q, dropping cell", key), err)
			continue
		}
		if pending != nil {
			entry.overflow = append(entry.overflow, *pending)
		}
	}
	return nil
}

// maybeUpgradeIdentifier applies the identifier overwrite rules for a
// matched guest: a real identifier is never replaced by a synthetic one,
// and a synthetic identifier is promoted to a real one only when the
// incoming value is well formed and the match was corroborated by
// name+contact rather than by trusting the file.
func (r *Reconciler) maybeUpgradeIdentifier(guest *models.Guest, rawID string, byContact bool) {
	if !guests.UsableID(rawID) {
		return
	}
	if guest.IDNumber == nil || strings.TrimSpace(*guest.IDNumber) == "" {
		normalized := guests.NormalizeID(rawID)
		guest.IDNumber = &normalized
		return
	}
	if guests.IsSyntheticID(*guest.IDNumber) && byContact {
		normalized := guests.NormalizeID(rawID)
		guest.IDNumber = &normalized
	}
}

// replaySerially re-runs each staged row as its own transaction, with
// the matcher re-consulted against current storage. This is the slow,
// correct path for within-batch identifier collisions and concurrent
// imports of overlapping guest sets.
func (r *Reconciler) replaySerially(ctx context.Context, eventID, jobID int64, header []string, staged []*stagedRow, result *BatchResult) {
	router, err := NewSlotRouter(ctx, r.guests, eventID)
	if err != nil {
		for _, entry := range staged {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row: entry.row.Values,
				Err: fmt.Sprintf("load custom fields for replay: %v", err),
			})
		}
		return
	}

	for _, entry := range staged {
		// Re-stage from scratch: earlier rows of this replay may have
		// created the guest this row should merge into.
		fresh, err := r.stageRow(ctx, router, eventID, jobID, header, entry.row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: entry.row.Values, Err: err.Error()})
			continue
		}

		saveErr := r.client.WithTx(ctx, func(tx *gorm.DB) error {
			repo := r.guests.WithTx(tx)
			if fresh.isNew {
				_, err := repo.Create(ctx, fresh.guest)
				return err
			}
			return repo.Save(ctx, fresh.guest)
		})
		if saveErr != nil {
			if db.IsUniqueViolation(saveErr, "") {
				if r.mergeAfterCollision(ctx, eventID, fresh) {
					result.Success++
					r.flushOverflow(ctx, []*stagedRow{fresh})
					continue
				}
			}
			identifier := ""
			if fresh.guest.IDNumber != nil {
				identifier = *fresh.guest.IDNumber
			}
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row: entry.row.Values,
				Err: fmt.Sprintf("duplicate identifier %q: %v", identifier, saveErr),
			})
			continue
		}
		result.Success++
		r.flushOverflow(ctx, []*stagedRow{fresh})
	}
}

// mergeAfterCollision handles the insert that lost a uniqueness race: the
// colliding guest is looked up and, when it is genuinely the same person
// (same identifier, or same name with a matching contact channel), the
// staged values are merged onto it. A collision with an unrelated guest
// stays an error.
func (r *Reconciler) mergeAfterCollision(ctx context.Context, eventID int64, entry *stagedRow) bool {
	signals := extractSignals(entry.row)
	if signals.RawID == "" && entry.guest.IDNumber != nil {
		signals.RawID = *entry.guest.IDNumber
	}

	existing, byContact, err := r.matcher.Match(ctx, eventID, signals)
	if err != nil || existing == nil {
		return false
	}
	if !byContact && !sameIdentity(existing, signals) {
		return false
	}

	staged := entry.guest
	entry.guest = existing
	entry.isNew = false
	mergeStagedInto(existing, staged)
	r.maybeUpgradeIdentifier(existing, signals.RawID, byContact)

	if err := r.guests.Save(ctx, existing); err != nil {
		return false
	}
	return true
}

// flushOverflow persists staged overflow values after guest rows are
// durable, so foreign keys resolve. Failures are soft: the guest row is
// already saved and must not be re-flagged as failed.
func (r *Reconciler) flushOverflow(ctx context.Context, staged []*stagedRow) {
	for _, entry := range staged {
		if entry.guest.ID == 0 {
			continue
		}
		for _, pending := range entry.overflow {
			if err := r.guests.UpsertFieldValue(ctx, entry.guest.ID, pending.fieldID, pending.value); err != nil {
				r.logg.Error(ctx, "persist overflow field value", err)
			}
		}
	}
}

// sameIdentity decides whether an identifier-matched guest plausibly is
// the row's person: any name overlap counts, and an entirely different
// name is still accepted when a phone or email channel corroborates it.
func sameIdentity(guest *models.Guest, signals RowSignals) bool {
	firstMatches := signals.FirstName == "" || strings.EqualFold(guest.FirstName, signals.FirstName)
	lastMatches := signals.LastName == "" || strings.EqualFold(guest.LastName, signals.LastName)
	if firstMatches || lastMatches {
		return true
	}

	if phone := guests.NormalizePhone(signals.Phone); len(phone) >= 7 {
		for _, candidate := range guest.PhoneCandidates() {
			if candidate != nil && guests.NormalizePhone(*candidate) == phone {
				return true
			}
		}
	}
	if email := strings.ToLower(strings.TrimSpace(signals.Email)); strings.Contains(email, "@") {
		for _, candidate := range []*string{guest.Email, guest.Email2} {
			if candidate != nil && strings.EqualFold(strings.TrimSpace(*candidate), email) {
				return true
			}
		}
	}
	return false
}

func extractSignals(row Row) RowSignals {
	raw := row.Get(idHeaderKeys...)
	if raw == "-" {
		raw = ""
	}
	return RowSignals{
		RawID:     raw,
		FirstName: row.Get(firstNameHeaderKeys...),
		LastName:  row.Get(lastNameHeaderKeys...),
		Phone:     row.Get(phoneHeaderKeys...),
		Email:     row.Get(emailHeaderKeys...),
	}
}

// resolveIdentifier returns the digit-normalized identifier, or a
// deterministic synthetic one when the row carries nothing usable. The
// synthetic form embeds the absolute row index so re-running the same
// job row is idempotent.
func resolveIdentifier(rawID string, eventID, jobID int64, absoluteIndex int) string {
	if guests.UsableID(rawID) {
		return guests.NormalizeID(rawID)
	}
	return fmt.Sprintf("%s%d-%d-%d", guests.SyntheticIDPrefix, eventID, jobID, absoluteIndex)
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// mergeStagedInto copies the staged, file-derived values onto the guest
// that won the insert race. Only populated values move; the identifier
// is handled separately by the upgrade rules.
func mergeStagedInto(dst, src *models.Guest) {
	if src.FirstName != "" && src.FirstName != placeholderFirstName {
		dst.FirstName = src.FirstName
	}
	if src.LastName != "" && src.LastName != placeholderLastName {
		dst.LastName = src.LastName
	}
	if src.Gender != enums.GenderUnknown {
		dst.Gender = src.Gender
	}
	copyStrPtrs(dst, src)
	if src.Age != nil {
		dst.Age = src.Age
	}
	if src.IsHokActive != nil {
		dst.IsHokActive = src.IsHokActive
	}
	if src.BirthDate != nil {
		dst.BirthDate = src.BirthDate
	}
	if src.RequestedReturnDate != nil {
		dst.RequestedReturnDate = src.RequestedReturnDate
	}
	if src.LastTelephonistCall != nil {
		dst.LastTelephonistCall = src.LastTelephonistCall
	}
}

func copyStrPtrs(dst, src *models.Guest) {
	pairs := []struct {
		dst **string
		src *string
	}{
		{&dst.Email, src.Email}, {&dst.Email2, src.Email2},
		{&dst.MiddleName, src.MiddleName}, {&dst.TitleBefore, src.TitleBefore},
		{&dst.TitleAfter, src.TitleAfter}, {&dst.SpouseName, src.SpouseName},
		{&dst.WifeName, src.WifeName}, {&dst.Language, src.Language},
		{&dst.MobilePhone, src.MobilePhone}, {&dst.HomePhone, src.HomePhone},
		{&dst.AltPhone1, src.AltPhone1}, {&dst.AltPhone2, src.AltPhone2},
		{&dst.WifePhone, src.WifePhone},
		{&dst.AccountNumber, src.AccountNumber},
		{&dst.ManagerPersonalNumber, src.ManagerPersonalNumber},
		{&dst.CardID, src.CardID},
		{&dst.Groups, src.Groups}, {&dst.EmailGroup, src.EmailGroup},
		{&dst.UserLink, src.UserLink}, {&dst.AmbassadorID, src.AmbassadorID},
		{&dst.Ambassador, src.Ambassador},
		{&dst.TelephonistAssignment, src.TelephonistAssignment},
		{&dst.Synagogue, src.Synagogue},
		{&dst.LeadsEligibilityStatus, src.LeadsEligibilityStatus},
		{&dst.LastCallStatus, src.LastCallStatus},
		{&dst.Notes, src.Notes}, {&dst.TelephonistNotes, src.TelephonistNotes},
		{&dst.StatusDescription, src.StatusDescription},
		{&dst.Street, src.Street}, {&dst.BuildingNumber, src.BuildingNumber},
		{&dst.ApartmentNumber, src.ApartmentNumber}, {&dst.City, src.City},
		{&dst.Neighborhood, src.Neighborhood}, {&dst.PostalCode, src.PostalCode},
		{&dst.Country, src.Country}, {&dst.State, src.State},
		{&dst.MailingAddress, src.MailingAddress},
		{&dst.RecipientName, src.RecipientName},
		{&dst.Bank, src.Bank}, {&dst.Branch, src.Branch},
		{&dst.CreditCardNumber, src.CreditCardNumber},
		{&dst.MonthlyHokAmount, src.MonthlyHokAmount},
		{&dst.LastPaymentAmount, src.LastPaymentAmount},
		{&dst.DonationsPaymentsLastYear, src.DonationsPaymentsLastYear},
		{&dst.TotalDonationsPayments, src.TotalDonationsPayments},
		{&dst.DonationCommitment, src.DonationCommitment},
		{&dst.DonationAbility, src.DonationAbility},
		{&dst.DinnersParticipated, src.DinnersParticipated},
		{&dst.SponsorshipBlessingStatus, src.SponsorshipBlessingStatus},
		{&dst.BlessingContent, src.BlessingContent},
		{&dst.MenSeating, src.MenSeating},
		{&dst.MenTemporarySeating, src.MenTemporarySeating},
		{&dst.MenTableNumber, src.MenTableNumber},
		{&dst.SeatNearMain, src.SeatNearMain},
		{&dst.WomenSeating, src.WomenSeating},
		{&dst.WomenTemporarySeating, src.WomenTemporarySeating},
		{&dst.WomenTableNumber, src.WomenTableNumber},
		{&dst.WomenDinnerParticipation, src.WomenDinnerParticipation},
	}
	for _, pair := range pairs {
		if pair.src != nil && strings.TrimSpace(*pair.src) != "" {
			*pair.dst = pair.src
		}
	}
	for slot := 1; slot <= models.GuestInlineSlots; slot++ {
		if value := *src.InlineSlot(slot); value != nil && strings.TrimSpace(*value) != "" {
			*dst.InlineSlot(slot) = value
		}
	}
}

func failAll(rows []Row, reason string) BatchResult {
	result := BatchResult{Failed: len(rows)}
	for _, row := range rows {
		result.Errors = append(result.Errors, RowError{Row: row.Values, Err: reason})
	}
	return result
}
