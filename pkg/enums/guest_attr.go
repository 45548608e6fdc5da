package enums

// GuestAttr names one of the fixed guest columns that spreadsheet
// headers can map onto. The set is closed: anything a file carries
// beyond these lands in the per-event custom fields instead.
type GuestAttr string

// AttrKind drives value conversion for a guest attribute.
type AttrKind string

const (
	KindText    AttrKind = "text"
	KindInt     AttrKind = "int"
	KindBool    AttrKind = "bool"
	KindDate    AttrKind = "date"
	KindDecimal AttrKind = "decimal"
)

const (
	AttrFirstName GuestAttr = "first_name"
	AttrLastName  GuestAttr = "last_name"
	AttrIDNumber  GuestAttr = "id_number"
	AttrEmail     GuestAttr = "email"
	AttrGender    GuestAttr = "gender"

	AttrMiddleName  GuestAttr = "middle_name"
	AttrTitleBefore GuestAttr = "title_before"
	AttrTitleAfter  GuestAttr = "title_after"
	AttrSpouseName  GuestAttr = "spouse_name"
	AttrWifeName    GuestAttr = "wife_name"
	AttrAge         GuestAttr = "age"
	AttrBirthDate   GuestAttr = "birth_date"
	AttrLanguage    GuestAttr = "language"

	AttrMobilePhone GuestAttr = "mobile_phone"
	AttrHomePhone   GuestAttr = "home_phone"
	AttrAltPhone1   GuestAttr = "alt_phone_1"
	AttrAltPhone2   GuestAttr = "alt_phone_2"
	AttrEmail2      GuestAttr = "email_2"
	AttrWifePhone   GuestAttr = "wife_phone"

	AttrAccountNumber         GuestAttr = "account_number"
	AttrManagerPersonalNumber GuestAttr = "manager_personal_number"
	AttrCardID                GuestAttr = "card_id"

	AttrGroups                 GuestAttr = "groups"
	AttrEmailGroup             GuestAttr = "email_group"
	AttrUserLink               GuestAttr = "user_link"
	AttrAmbassadorID           GuestAttr = "ambassador_id"
	AttrAmbassador             GuestAttr = "ambassador"
	AttrTelephonistAssignment  GuestAttr = "telephonist_assignment"
	AttrSynagogue              GuestAttr = "synagogue"
	AttrLeadsEligibilityStatus GuestAttr = "eligibility_status_for_leads"
	AttrRequestedReturnDate    GuestAttr = "requested_return_date"
	AttrLastTelephonistCall    GuestAttr = "last_telephonist_call"
	AttrLastCallStatus         GuestAttr = "last_call_status"
	AttrNotes                  GuestAttr = "notes"
	AttrTelephonistNotes       GuestAttr = "telephonist_notes"
	AttrStatusDescription      GuestAttr = "status_description"

	AttrStreet          GuestAttr = "street"
	AttrBuildingNumber  GuestAttr = "building_number"
	AttrApartmentNumber GuestAttr = "apartment_number"
	AttrCity            GuestAttr = "city"
	AttrNeighborhood    GuestAttr = "neighborhood"
	AttrPostalCode      GuestAttr = "postal_code"
	AttrCountry         GuestAttr = "country"
	AttrState           GuestAttr = "state"
	AttrMailingAddress  GuestAttr = "mailing_address"
	AttrRecipientName   GuestAttr = "recipient_name"

	AttrBank             GuestAttr = "bank"
	AttrBranch           GuestAttr = "branch"
	AttrCreditCardNumber GuestAttr = "credit_card_number"

	AttrIsHokActive               GuestAttr = "is_hok_active"
	AttrMonthlyHokAmount          GuestAttr = "monthly_hok_amount_nis"
	AttrLastPaymentAmount         GuestAttr = "last_payment_amount"
	AttrDonationsPaymentsLastYear GuestAttr = "donations_payments_last_year"
	AttrTotalDonationsPayments    GuestAttr = "total_donations_payments"
	AttrDonationCommitment        GuestAttr = "donation_commitment"
	AttrDonationAbility           GuestAttr = "donation_ability"

	AttrDinnersParticipated       GuestAttr = "dinners_participated"
	AttrSponsorshipBlessingStatus GuestAttr = "sponsorship_blessing_status"
	AttrBlessingContent           GuestAttr = "blessing_content"

	AttrMenSeating          GuestAttr = "men_seating"
	AttrMenTemporarySeating GuestAttr = "men_temporary_seating"
	AttrMenTableNumber      GuestAttr = "men_table_number"
	AttrSeatNearMain        GuestAttr = "seat_near_main"

	AttrWomenSeating             GuestAttr = "women_seating"
	AttrWomenTemporarySeating    GuestAttr = "women_temporary_seating"
	AttrWomenTableNumber         GuestAttr = "women_table_number"
	AttrWomenDinnerParticipation GuestAttr = "women_dinner_participation"
)

var attrKinds = map[GuestAttr]AttrKind{
	AttrAge: KindInt,

	AttrIsHokActive: KindBool,

	AttrBirthDate:           KindDate,
	AttrRequestedReturnDate: KindDate,
	AttrLastTelephonistCall: KindDate,

	AttrMonthlyHokAmount:          KindDecimal,
	AttrLastPaymentAmount:         KindDecimal,
	AttrDonationsPaymentsLastYear: KindDecimal,
	AttrTotalDonationsPayments:    KindDecimal,
}

// Kind returns the conversion kind for the attribute; text when unmapped.
func (a GuestAttr) Kind() AttrKind {
	if kind, ok := attrKinds[a]; ok {
		return kind
	}
	return KindText
}

// allGuestAttrs lists every member of the closed set, used for validity
// checks and for building the column catalog.
var allGuestAttrs = []GuestAttr{
	AttrFirstName, AttrLastName, AttrIDNumber, AttrEmail, AttrGender,
	AttrMiddleName, AttrTitleBefore, AttrTitleAfter, AttrSpouseName, AttrWifeName,
	AttrAge, AttrBirthDate, AttrLanguage,
	AttrMobilePhone, AttrHomePhone, AttrAltPhone1, AttrAltPhone2, AttrEmail2, AttrWifePhone,
	AttrAccountNumber, AttrManagerPersonalNumber, AttrCardID,
	AttrGroups, AttrEmailGroup, AttrUserLink, AttrAmbassadorID, AttrAmbassador,
	AttrTelephonistAssignment, AttrSynagogue,
	AttrLeadsEligibilityStatus, AttrRequestedReturnDate, AttrLastTelephonistCall,
	AttrLastCallStatus, AttrNotes, AttrTelephonistNotes, AttrStatusDescription,
	AttrStreet, AttrBuildingNumber, AttrApartmentNumber, AttrCity, AttrNeighborhood,
	AttrPostalCode, AttrCountry, AttrState, AttrMailingAddress, AttrRecipientName,
	AttrBank, AttrBranch, AttrCreditCardNumber,
	AttrIsHokActive, AttrMonthlyHokAmount, AttrLastPaymentAmount,
	AttrDonationsPaymentsLastYear, AttrTotalDonationsPayments,
	AttrDonationCommitment, AttrDonationAbility,
	AttrDinnersParticipated, AttrSponsorshipBlessingStatus, AttrBlessingContent,
	AttrMenSeating, AttrMenTemporarySeating, AttrMenTableNumber, AttrSeatNearMain,
	AttrWomenSeating, AttrWomenTemporarySeating, AttrWomenTableNumber,
	AttrWomenDinnerParticipation,
}

var validGuestAttrs = func() map[GuestAttr]struct{} {
	set := make(map[GuestAttr]struct{}, len(allGuestAttrs))
	for _, attr := range allGuestAttrs {
		set[attr] = struct{}{}
	}
	return set
}()

func (a GuestAttr) IsValid() bool {
	_, ok := validGuestAttrs[a]
	return ok
}

// GuestAttrs returns the closed attribute set in a stable order.
func GuestAttrs() []GuestAttr {
	out := make([]GuestAttr, len(allGuestAttrs))
	copy(out, allGuestAttrs)
	return out
}
