package imports

import (
	"strings"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/enums"
)

// applyAttr converts one cell and writes it onto the matching guest
// column. Empty cells never touch the record, so re-imports cannot blank
// out previously populated data. Returns whether the value was applied.
//
// The identifier column is deliberately absent here: the reconciler owns
// id_number because its overwrite rules depend on how the guest was
// matched, not just on the cell's content.
func applyAttr(guest *models.Guest, attr enums.GuestAttr, raw string) bool {
	value := strings.TrimSpace(raw)
	if value == "" {
		return false
	}

	switch attr.Kind() {
	case enums.KindInt:
		n, ok := parseInt(value)
		if !ok {
			return false
		}
		switch attr {
		case enums.AttrAge:
			guest.Age = &n
			return true
		}
		return false

	case enums.KindBool:
		b, ok := parseBool(value)
		if !ok {
			return false
		}
		switch attr {
		case enums.AttrIsHokActive:
			guest.IsHokActive = &b
			return true
		}
		return false

	case enums.KindDate:
		t, ok := parseDate(value)
		if !ok {
			return false
		}
		switch attr {
		case enums.AttrBirthDate:
			guest.BirthDate = &t
		case enums.AttrRequestedReturnDate:
			guest.RequestedReturnDate = &t
		case enums.AttrLastTelephonistCall:
			guest.LastTelephonistCall = &t
		default:
			return false
		}
		return true

	case enums.KindDecimal:
		canonical, ok := parseDecimal(value)
		if !ok {
			return false
		}
		switch attr {
		case enums.AttrMonthlyHokAmount:
			guest.MonthlyHokAmount = &canonical
		case enums.AttrLastPaymentAmount:
			guest.LastPaymentAmount = &canonical
		case enums.AttrDonationsPaymentsLastYear:
			guest.DonationsPaymentsLastYear = &canonical
		case enums.AttrTotalDonationsPayments:
			guest.TotalDonationsPayments = &canonical
		default:
			return false
		}
		return true
	}

	switch attr {
	case enums.AttrFirstName:
		guest.FirstName = value
	case enums.AttrLastName:
		guest.LastName = value
	case enums.AttrGender:
		guest.Gender = enums.ParseGender(value)
	case enums.AttrEmail:
		guest.Email = &value
	case enums.AttrMiddleName:
		guest.MiddleName = &value
	case enums.AttrTitleBefore:
		guest.TitleBefore = &value
	case enums.AttrTitleAfter:
		guest.TitleAfter = &value
	case enums.AttrSpouseName:
		guest.SpouseName = &value
	case enums.AttrWifeName:
		guest.WifeName = &value
	case enums.AttrLanguage:
		guest.Language = &value
	case enums.AttrMobilePhone:
		guest.MobilePhone = &value
	case enums.AttrHomePhone:
		guest.HomePhone = &value
	case enums.AttrAltPhone1:
		guest.AltPhone1 = &value
	case enums.AttrAltPhone2:
		guest.AltPhone2 = &value
	case enums.AttrEmail2:
		guest.Email2 = &value
	case enums.AttrWifePhone:
		guest.WifePhone = &value
	case enums.AttrAccountNumber:
		guest.AccountNumber = &value
	case enums.AttrManagerPersonalNumber:
		guest.ManagerPersonalNumber = &value
	case enums.AttrCardID:
		guest.CardID = &value
	case enums.AttrGroups:
		guest.Groups = &value
	case enums.AttrEmailGroup:
		guest.EmailGroup = &value
	case enums.AttrUserLink:
		guest.UserLink = &value
	case enums.AttrAmbassadorID:
		guest.AmbassadorID = &value
	case enums.AttrAmbassador:
		guest.Ambassador = &value
	case enums.AttrTelephonistAssignment:
		guest.TelephonistAssignment = &value
	case enums.AttrSynagogue:
		guest.Synagogue = &value
	case enums.AttrLeadsEligibilityStatus:
		guest.LeadsEligibilityStatus = &value
	case enums.AttrLastCallStatus:
		guest.LastCallStatus = &value
	case enums.AttrNotes:
		guest.Notes = &value
	case enums.AttrTelephonistNotes:
		guest.TelephonistNotes = &value
	case enums.AttrStatusDescription:
		guest.StatusDescription = &value
	case enums.AttrStreet:
		guest.Street = &value
	case enums.AttrBuildingNumber:
		guest.BuildingNumber = &value
	case enums.AttrApartmentNumber:
		guest.ApartmentNumber = &value
	case enums.AttrCity:
		guest.City = &value
	case enums.AttrNeighborhood:
		guest.Neighborhood = &value
	case enums.AttrPostalCode:
		guest.PostalCode = &value
	case enums.AttrCountry:
		guest.Country = &value
	case enums.AttrState:
		guest.State = &value
	case enums.AttrMailingAddress:
		guest.MailingAddress = &value
	case enums.AttrRecipientName:
		guest.RecipientName = &value
	case enums.AttrBank:
		guest.Bank = &value
	case enums.AttrBranch:
		guest.Branch = &value
	case enums.AttrCreditCardNumber:
		guest.CreditCardNumber = &value
	case enums.AttrDonationCommitment:
		guest.DonationCommitment = &value
	case enums.AttrDonationAbility:
		guest.DonationAbility = &value
	case enums.AttrDinnersParticipated:
		guest.DinnersParticipated = &value
	case enums.AttrSponsorshipBlessingStatus:
		guest.SponsorshipBlessingStatus = &value
	case enums.AttrBlessingContent:
		guest.BlessingContent = &value
	case enums.AttrMenSeating:
		guest.MenSeating = &value
	case enums.AttrMenTemporarySeating:
		guest.MenTemporarySeating = &value
	case enums.AttrMenTableNumber:
		guest.MenTableNumber = &value
	case enums.AttrSeatNearMain:
		guest.SeatNearMain = &value
	case enums.AttrWomenSeating:
		guest.WomenSeating = &value
	case enums.AttrWomenTemporarySeating:
		guest.WomenTemporarySeating = &value
	case enums.AttrWomenTableNumber:
		guest.WomenTableNumber = &value
	case enums.AttrWomenDinnerParticipation:
		guest.WomenDinnerParticipation = &value
	default:
		return false
	}
	return true
}
