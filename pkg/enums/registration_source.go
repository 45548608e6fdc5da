package enums

type RegistrationSource string

const (
	RegistrationSourceBot    RegistrationSource = "bot"
	RegistrationSourceForm   RegistrationSource = "form"
	RegistrationSourceManual RegistrationSource = "manual"
	RegistrationSourceImport RegistrationSource = "import"
)

func (s RegistrationSource) IsValid() bool {
	switch s {
	case RegistrationSourceBot, RegistrationSourceForm, RegistrationSourceManual, RegistrationSourceImport:
		return true
	}
	return false
}
