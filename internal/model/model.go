package model

import (
	"slices"
	"time"
)

const (
	// ChoicesMaxNumber caps the number of distinct choices (including the default).
	ChoicesMaxNumber = 5

	// TextValueMaxLength is the number of runes kept on submission; longer text only warns while editing.
	TextValueMaxLength = 40

	DebouncePeriod = 2500 * time.Millisecond

	StorageKey = "qb_field_builder_2024"
)

type FieldKey string

const (
	KeyChoices       FieldKey = "choices"
	KeyDefaultChoice FieldKey = "defaultChoice"
	KeyDisplayOrder  FieldKey = "displayOrder"
	KeyLabel         FieldKey = "label"
	KeyMultiselect   FieldKey = "multiselect"
	KeyNewChoice     FieldKey = "newChoice"
	KeyRequired      FieldKey = "required"
)

// FieldKeys lists every field key in a stable order.
func FieldKeys() []FieldKey {
	return []FieldKey{
		KeyChoices,
		KeyDefaultChoice,
		KeyDisplayOrder,
		KeyLabel,
		KeyMultiselect,
		KeyNewChoice,
		KeyRequired,
	}
}

type ErrorCode string

const (
	ErrorNone       ErrorCode = ""
	ErrorDuplicated ErrorCode = "duplicated"
	ErrorRequired   ErrorCode = "required"
	ErrorTooMany    ErrorCode = "too_many"
)

func (c ErrorCode) Valid() bool {
	switch c {
	case ErrorNone, ErrorDuplicated, ErrorRequired, ErrorTooMany:
		return true
	}
	return false
}

type WarnCode string

const (
	WarnNone        WarnCode = ""
	WarnSomeTooLong WarnCode = "some_too_long"
	WarnTooLong     WarnCode = "too_long"
	WarnTooMany     WarnCode = "too_many"
)

func (c WarnCode) Valid() bool {
	switch c {
	case WarnNone, WarnSomeTooLong, WarnTooLong, WarnTooMany:
		return true
	}
	return false
}

type Validation struct {
	ErrorCode ErrorCode `json:"errorCode"`
	WarnCode  WarnCode  `json:"warnCode"`
}

// Valid reports whether both codes are known values.
func (v Validation) Valid() bool {
	return v.ErrorCode.Valid() && v.WarnCode.Valid()
}

// Field wraps one configurable attribute with its edit flag and validation outcome.
type Field[T any] struct {
	Value      T          `json:"value"`
	IsUpdated  bool       `json:"isUpdated"`
	Validation Validation `json:"validation"`
}

type Fields struct {
	Choices       Field[[]string]     `json:"choices"`
	DefaultChoice Field[string]       `json:"defaultChoice"`
	DisplayOrder  Field[DisplayOrder] `json:"displayOrder"`
	Label         Field[string]       `json:"label"`
	Multiselect   Field[bool]         `json:"multiselect"`
	NewChoice     Field[string]       `json:"newChoice"`
	Required      Field[bool]         `json:"required"`
}

// State is the whole editable field configuration.
//
// UpdatedAt is Unix milliseconds of the last reducer change, nil until the first edit.
type State struct {
	Fields    Fields `json:"fields"`
	UpdatedAt *int64 `json:"updatedAt"`
}

// Validation returns the validation result stored for key.
func (f Fields) Validation(key FieldKey) Validation {
	switch key {
	case KeyChoices:
		return f.Choices.Validation
	case KeyDefaultChoice:
		return f.DefaultChoice.Validation
	case KeyDisplayOrder:
		return f.DisplayOrder.Validation
	case KeyLabel:
		return f.Label.Validation
	case KeyMultiselect:
		return f.Multiselect.Validation
	case KeyNewChoice:
		return f.NewChoice.Validation
	case KeyRequired:
		return f.Required.Validation
	}
	return Validation{}
}

// SetValidation stores v for key. Unknown keys are ignored.
func (f *Fields) SetValidation(key FieldKey, v Validation) {
	switch key {
	case KeyChoices:
		f.Choices.Validation = v
	case KeyDefaultChoice:
		f.DefaultChoice.Validation = v
	case KeyDisplayOrder:
		f.DisplayOrder.Validation = v
	case KeyLabel:
		f.Label.Validation = v
	case KeyMultiselect:
		f.Multiselect.Validation = v
	case KeyNewChoice:
		f.NewChoice.Validation = v
	case KeyRequired:
		f.Required.Validation = v
	}
}

// IsUpdated reports the edit flag stored for key.
func (f Fields) IsUpdated(key FieldKey) bool {
	switch key {
	case KeyChoices:
		return f.Choices.IsUpdated
	case KeyDefaultChoice:
		return f.DefaultChoice.IsUpdated
	case KeyDisplayOrder:
		return f.DisplayOrder.IsUpdated
	case KeyLabel:
		return f.Label.IsUpdated
	case KeyMultiselect:
		return f.Multiselect.IsUpdated
	case KeyNewChoice:
		return f.NewChoice.IsUpdated
	case KeyRequired:
		return f.Required.IsUpdated
	}
	return false
}

// Clone returns a deep copy; the choices slice is never shared. An empty
// list stays non-nil so it serializes as [].
func (s State) Clone() State {
	out := s
	out.Fields.Choices.Value = slices.Clone(s.Fields.Choices.Value)
	if s.UpdatedAt != nil {
		ts := *s.UpdatedAt
		out.UpdatedAt = &ts
	}
	return out
}

// Touched reports whether the state has been edited since the last reset.
func (s State) Touched() bool {
	return s.UpdatedAt != nil
}

// Stamp returns a pointer to now in Unix milliseconds.
func Stamp(now time.Time) *int64 {
	ms := now.UnixMilli()
	return &ms
}
