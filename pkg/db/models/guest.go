package models

import (
	"time"

	"github.com/mirevents/eventdesk/pkg/enums"
)

// GuestInlineSlots is the number of custom_field_N columns on the guests
// table. Custom fields beyond this many distinct names per event spill
// into guest_field_values.
const GuestInlineSlots = 15

// Guest is one invitee of an event. The id_number column is the display
// identifier: usually a national ID, sometimes a synthetic placeholder
// minted during import. It is unique per event when present.
type Guest struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement"`
	EventID int64 `gorm:"column:event_id;not null;index;uniqueIndex:uq_event_guest,priority:1"`

	FirstName string  `gorm:"column:first_name;not null"`
	LastName  string  `gorm:"column:last_name;not null"`
	IDNumber  *string `gorm:"column:id_number;uniqueIndex:uq_event_guest,priority:2"`

	Email  *string      `gorm:"column:email"`
	Gender enums.Gender `gorm:"column:gender;not null;default:unknown"`

	ConfirmedArrival bool       `gorm:"column:confirmed_arrival;not null;default:false"`
	QRCode           *string    `gorm:"column:qr_code"`
	CheckInTime      *time.Time `gorm:"column:check_in_time"`
	CheckOutTime     *time.Time `gorm:"column:check_out_time"`
	LastScanTime     *time.Time `gorm:"column:last_scan_time"`

	RegistrationSource *enums.RegistrationSource `gorm:"column:registration_source"`

	// Personal details.
	MiddleName  *string    `gorm:"column:middle_name"`
	TitleBefore *string    `gorm:"column:title_before"`
	TitleAfter  *string    `gorm:"column:title_after"`
	SpouseName  *string    `gorm:"column:spouse_name"`
	WifeName    *string    `gorm:"column:wife_name"`
	Age         *int       `gorm:"column:age"`
	BirthDate   *time.Time `gorm:"column:birth_date"`
	Language    *string    `gorm:"column:language"`

	// Contact channels. The matcher compares all phone columns after
	// digit normalization.
	MobilePhone *string `gorm:"column:mobile_phone"`
	HomePhone   *string `gorm:"column:home_phone"`
	AltPhone1   *string `gorm:"column:alt_phone_1"`
	AltPhone2   *string `gorm:"column:alt_phone_2"`
	Email2      *string `gorm:"column:email_2"`
	WifePhone   *string `gorm:"column:wife_phone"`

	// External identifiers.
	AccountNumber         *string `gorm:"column:account_number"`
	ManagerPersonalNumber *string `gorm:"column:manager_personal_number"`
	CardID                *string `gorm:"column:card_id"`

	// Grouping and assignment.
	Groups                 *string    `gorm:"column:groups"`
	EmailGroup             *string    `gorm:"column:email_group"`
	UserLink               *string    `gorm:"column:user_link"`
	AmbassadorID           *string    `gorm:"column:ambassador_id"`
	Ambassador             *string    `gorm:"column:ambassador"`
	TelephonistAssignment  *string    `gorm:"column:telephonist_assignment"`
	Synagogue              *string    `gorm:"column:synagogue"`
	LeadsEligibilityStatus *string    `gorm:"column:eligibility_status_for_leads"`
	RequestedReturnDate    *time.Time `gorm:"column:requested_return_date"`
	LastTelephonistCall    *time.Time `gorm:"column:last_telephonist_call"`
	LastCallStatus         *string    `gorm:"column:last_call_status"`
	Notes                  *string    `gorm:"column:notes"`
	TelephonistNotes       *string    `gorm:"column:telephonist_notes"`
	StatusDescription      *string    `gorm:"column:status_description"`

	// Primary address.
	Street          *string `gorm:"column:street"`
	BuildingNumber  *string `gorm:"column:building_number"`
	ApartmentNumber *string `gorm:"column:apartment_number"`
	City            *string `gorm:"column:city"`
	Neighborhood    *string `gorm:"column:neighborhood"`
	PostalCode      *string `gorm:"column:postal_code"`
	Country         *string `gorm:"column:country"`
	State           *string `gorm:"column:state"`
	MailingAddress  *string `gorm:"column:mailing_address"`
	RecipientName   *string `gorm:"column:recipient_name"`

	// Banking.
	Bank             *string `gorm:"column:bank"`
	Branch           *string `gorm:"column:branch"`
	CreditCardNumber *string `gorm:"column:credit_card_number"`

	// Donations. Amounts are stored canonicalized (no thousands
	// separators) but remain text columns.
	IsHokActive               *bool   `gorm:"column:is_hok_active"`
	MonthlyHokAmount          *string `gorm:"column:monthly_hok_amount_nis"`
	LastPaymentAmount         *string `gorm:"column:last_payment_amount"`
	DonationsPaymentsLastYear *string `gorm:"column:donations_payments_last_year"`
	TotalDonationsPayments    *string `gorm:"column:total_donations_payments"`
	DonationCommitment        *string `gorm:"column:donation_commitment"`
	DonationAbility           *string `gorm:"column:donation_ability"`

	// Dinners and seating.
	DinnersParticipated       *string `gorm:"column:dinners_participated"`
	SponsorshipBlessingStatus *string `gorm:"column:sponsorship_blessing_status"`
	BlessingContent           *string `gorm:"column:blessing_content"`
	MenSeating                *string `gorm:"column:men_seating"`
	MenTemporarySeating       *string `gorm:"column:men_temporary_seating"`
	MenTableNumber            *string `gorm:"column:men_table_number"`
	SeatNearMain              *string `gorm:"column:seat_near_main"`
	WomenSeating              *string `gorm:"column:women_seating"`
	WomenTemporarySeating     *string `gorm:"column:women_temporary_seating"`
	WomenTableNumber          *string `gorm:"column:women_table_number"`
	WomenDinnerParticipation  *string `gorm:"column:women_dinner_participation"`

	// Inline extension slots, routed by per-event slot position.
	CustomField1  *string `gorm:"column:custom_field_1"`
	CustomField2  *string `gorm:"column:custom_field_2"`
	CustomField3  *string `gorm:"column:custom_field_3"`
	CustomField4  *string `gorm:"column:custom_field_4"`
	CustomField5  *string `gorm:"column:custom_field_5"`
	CustomField6  *string `gorm:"column:custom_field_6"`
	CustomField7  *string `gorm:"column:custom_field_7"`
	CustomField8  *string `gorm:"column:custom_field_8"`
	CustomField9  *string `gorm:"column:custom_field_9"`
	CustomField10 *string `gorm:"column:custom_field_10"`
	CustomField11 *string `gorm:"column:custom_field_11"`
	CustomField12 *string `gorm:"column:custom_field_12"`
	CustomField13 *string `gorm:"column:custom_field_13"`
	CustomField14 *string `gorm:"column:custom_field_14"`
	CustomField15 *string `gorm:"column:custom_field_15"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// InlineSlot returns a pointer to the custom_field_N column for a 1-based
// slot number, or nil when the slot is out of range.
func (g *Guest) InlineSlot(slot int) **string {
	switch slot {
	case 1:
		return &g.CustomField1
	case 2:
		return &g.CustomField2
	case 3:
		return &g.CustomField3
	case 4:
		return &g.CustomField4
	case 5:
		return &g.CustomField5
	case 6:
		return &g.CustomField6
	case 7:
		return &g.CustomField7
	case 8:
		return &g.CustomField8
	case 9:
		return &g.CustomField9
	case 10:
		return &g.CustomField10
	case 11:
		return &g.CustomField11
	case 12:
		return &g.CustomField12
	case 13:
		return &g.CustomField13
	case 14:
		return &g.CustomField14
	case 15:
		return &g.CustomField15
	}
	return nil
}

// PhoneCandidates lists every phone column the matcher may compare.
func (g *Guest) PhoneCandidates() []*string {
	return []*string{g.MobilePhone, g.HomePhone, g.AltPhone1, g.AltPhone2, g.WifePhone}
}
