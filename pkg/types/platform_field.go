package types

// PlatformFieldType enumerates the input kinds a platform admin can add
// to a platform's custom field schema.
type PlatformFieldType string

const (
	PlatformFieldTypeText   PlatformFieldType = "text"
	PlatformFieldTypeNumber PlatformFieldType = "number"
	PlatformFieldTypeDate   PlatformFieldType = "date"
	PlatformFieldTypeSelect PlatformFieldType = "select"
)

func (t PlatformFieldType) Valid() bool {
	switch t {
	case PlatformFieldTypeText, PlatformFieldTypeNumber, PlatformFieldTypeDate, PlatformFieldTypeSelect:
		return true
	}
	return false
}

// PlatformField describes one custom field a platform asks its
// subscribers to fill in (for example plan name or member limit).
type PlatformField struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Type     PlatformFieldType `json:"type"`
	Required bool              `json:"required"`
	// Options is only meaningful for select fields.
	Options []string `json:"options,omitempty"`
}
