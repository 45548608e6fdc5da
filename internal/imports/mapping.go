package imports

import (
	"strings"

	"github.com/mirevents/eventdesk/pkg/enums"
)

// headerMappings maps every known spreadsheet column-header spelling,
// Hebrew and English, onto a guest attribute. Headers are looked up after
// CleanHeader; anything not in this table routes to the event's custom
// fields. The English snake_case spelling of every attribute is added at
// init so exported files round-trip without an explicit entry each.
var headerMappings = map[string]enums.GuestAttr{
	// Base identity.
	"שם":       enums.AttrFirstName,
	"שם פרטי":  enums.AttrFirstName,
	"שם_פרטי":  enums.AttrFirstName,
	"שם משפחה": enums.AttrLastName,
	"שם_משפחה": enums.AttrLastName,
	"מגדר":     enums.AttrGender,
	"מין":      enums.AttrGender,

	"תעודת זהות": enums.AttrIDNumber,
	"ת.ז":        enums.AttrIDNumber,
	"תז":         enums.AttrIDNumber,
	"ת.ז./ח.פ.":  enums.AttrIDNumber,
	"מספר זהות":  enums.AttrIDNumber,
	"מזהה":       enums.AttrIDNumber,
	"מזהה יבוא":  enums.AttrIDNumber,

	// Contact channels. Plain "phone" headers land on the mobile column;
	// the guest record has no bare phone field.
	"טלפון":      enums.AttrMobilePhone,
	"phone":      enums.AttrMobilePhone,
	"טלפון נייד": enums.AttrMobilePhone,
	"מספר טלפון": enums.AttrMobilePhone,
	"מספר נייד":  enums.AttrMobilePhone,
	"טלפון בית":  enums.AttrHomePhone,
	"טלפון_בית":  enums.AttrHomePhone,
	"טלפון ביתי": enums.AttrHomePhone,
	"טלפון נוסף":   enums.AttrAltPhone1,
	"טלפון נוסף 2": enums.AttrAltPhone2,
	"טלפון אשה":    enums.AttrWifePhone,

	"אימייל":        enums.AttrEmail,
	"מייל":          enums.AttrEmail,
	"דואר אלקטרוני": enums.AttrEmail,
	"Email 2":       enums.AttrEmail2,

	// Personal details.
	"שם אמצעי":       enums.AttrMiddleName,
	"תואר לפני":      enums.AttrTitleBefore,
	"תואר אחרי":      enums.AttrTitleAfter,
	"שם בן/בת הזוג":  enums.AttrSpouseName,
	"שם האישה":       enums.AttrWifeName,
	"גיל":            enums.AttrAge,
	"תאריך לידה":     enums.AttrBirthDate,
	"שפה":            enums.AttrLanguage,

	// External identifiers. CardID arrives in several spellings.
	"מספר אישי מניג'ר": enums.AttrManagerPersonalNumber,
	"מספר אישי מניגר":  enums.AttrManagerPersonalNumber,
	"CardID":           enums.AttrCardID,
	"Card ID":          enums.AttrCardID,
	"CARDID":           enums.AttrCardID,
	"CARD_ID":          enums.AttrCardID,
	"Card_Id":          enums.AttrCardID,
	"מספר חשבון":       enums.AttrAccountNumber,

	// Grouping and assignment.
	"קבוצות":             enums.AttrGroups,
	"קבוצה מייל":         enums.AttrEmailGroup,
	"קישור למשתמש":       enums.AttrUserLink,
	"מזהה שגריר":         enums.AttrAmbassadorID,
	"שגריר":              enums.AttrAmbassador,
	"שיוך לטלפנית":       enums.AttrTelephonistAssignment,
	"בית כנסת":           enums.AttrSynagogue,
	"סטטוס זכאות ללידים": enums.AttrLeadsEligibilityStatus,

	// Call-center tracking.
	"ביקש לחזור בתאריך":      enums.AttrRequestedReturnDate,
	"שיחה אחרונה עם טלפנית":  enums.AttrLastTelephonistCall,
	"סטטוס שיחה אחרונה":      enums.AttrLastCallStatus,
	"הערות":                  enums.AttrNotes,
	"הערות טלפניות":          enums.AttrTelephonistNotes,
	"תאור סטטוס":             enums.AttrStatusDescription,

	// Address.
	"רחוב":              enums.AttrStreet,
	"מספר בניין":        enums.AttrBuildingNumber,
	"מספר דירה":         enums.AttrApartmentNumber,
	"עיר":               enums.AttrCity,
	"שכונה":             enums.AttrNeighborhood,
	"מיקוד":             enums.AttrPostalCode,
	"מדינה":             enums.AttrCountry,
	"ארץ":               enums.AttrState,
	"כתובת למשלוח דואר": enums.AttrMailingAddress,
	"שם לקבלה":          enums.AttrRecipientName,

	// Banking.
	"בנק":                enums.AttrBank,
	"סניף":               enums.AttrBranch,
	"מספר כרטיס אשראי":   enums.AttrCreditCardNumber,
	"מספר_כרטיס_אשראי":   enums.AttrCreditCardNumber,
	"כרטיס אשראי":        enums.AttrCreditCardNumber,
	"מספר כרטיס":         enums.AttrCreditCardNumber,
	"כרטיס אשראי מספר":   enums.AttrCreditCardNumber,

	// Donations.
	"האם הוק פעיל":                      enums.AttrIsHokActive,
	"סכום הוק חודשי ₪":                  enums.AttrMonthlyHokAmount,
	"monthly_hok_amount":                enums.AttrMonthlyHokAmount,
	"סכום תשלום אחרון":                  enums.AttrLastPaymentAmount,
	"סכום תרומות ותשלומים בשנה האחרונה": enums.AttrDonationsPaymentsLastYear,
	"סכום תרומות ותשלומים סהכ":          enums.AttrTotalDonationsPayments,
	"התחייבות לתרומה":                   enums.AttrDonationCommitment,
	"יכולת תרומה":                       enums.AttrDonationAbility,

	// Dinners and seating.
	"דינרים משתתפים":     enums.AttrDinnersParticipated,
	"סטטוס חסות/ברכה":    enums.AttrSponsorshipBlessingStatus,
	"תוכן הברכה":         enums.AttrBlessingContent,
	"הושבה גברים":        enums.AttrMenSeating,
	"הושבה זמני גברים":   enums.AttrMenTemporarySeating,
	"מספר שולחן גברים":   enums.AttrMenTableNumber,
	"ליד מי תרצו לשבת":   enums.AttrSeatNearMain,
	"הושבה נשים":         enums.AttrWomenSeating,
	"הושבה זמני נשים":    enums.AttrWomenTemporarySeating,
	"מספר שולחן נשים":    enums.AttrWomenTableNumber,
	"השתתפות נשים דינר":  enums.AttrWomenDinnerParticipation,
}

func init() {
	for _, attr := range enums.GuestAttrs() {
		if _, ok := headerMappings[string(attr)]; !ok {
			headerMappings[string(attr)] = attr
		}
	}
}

// MapHeader resolves a cleaned column header to a guest attribute.
func MapHeader(header string) (enums.GuestAttr, bool) {
	attr, ok := headerMappings[header]
	return attr, ok
}

// Priority-ordered header candidates for the identity signals the
// matcher needs. Lookup order matters: the first non-empty cell wins.
var (
	idHeaderKeys = []string{
		"ת.ז./ח.פ.", "מזהה", "מזהה יבוא", "תעודת זהות",
		"id_number", "ת.ז", "תז", "מספר זהות",
	}
	firstNameHeaderKeys = []string{"שם", "first_name", "שם פרטי", "שם_פרטי"}
	lastNameHeaderKeys  = []string{"שם משפחה", "last_name", "שם_משפחה"}
	genderHeaderKeys    = []string{"gender", "מגדר", "מין"}
	phoneHeaderKeys     = []string{"טלפון", "phone", "טלפון נייד", "מספר טלפון", "מספר נייד"}
	emailHeaderKeys     = []string{"אימייל", "email", "מייל", "דואר אלקטרוני"}
)

// CleanHeader normalizes a raw column header: trims whitespace, strips a
// leading BOM, drops quote characters and collapses internal runs of
// whitespace to one space.
func CleanHeader(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "\uFEFF")
	for _, quote := range []string{`"`, "“", "”", "'", "‘", "’"} {
		cleaned = strings.ReplaceAll(cleaned, quote, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cleaned
}
