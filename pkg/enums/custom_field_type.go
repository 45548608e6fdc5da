package enums

type CustomFieldType string

const (
	CustomFieldText     CustomFieldType = "text"
	CustomFieldCheckbox CustomFieldType = "checkbox"
	CustomFieldSelect   CustomFieldType = "select"
)

func (t CustomFieldType) IsValid() bool {
	switch t {
	case CustomFieldText, CustomFieldCheckbox, CustomFieldSelect:
		return true
	}
	return false
}
