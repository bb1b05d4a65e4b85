package adapter

import (
	"fmt"
	"strings"

	"fieldbuilder/internal/model"
)

const (
	msgNoChoices        = "Provide at least one choice."
	msgEmptyLabel       = "Label cannot be empty."
	msgBadDisplayOrder  = "Invalid display order selected."
	msgTooManyUnique    = "Choices and default must form a set of unique values with up to 5 elements."
	msgBadErrorCode     = "Invalid error code."
	msgBadWarnCode      = "Invalid warning code."
	msgUpdatedAtInvalid = "Invalid timestamp."
)

// Issue is one violated schema constraint.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SchemaError lists every constraint a value violated.
type SchemaError struct {
	Subject string
	Issues  []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Path, is.Message))
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(parts, "; "))
}

// Has reports whether any issue is recorded at path.
func (e *SchemaError) Has(path string) bool {
	for _, is := range e.Issues {
		if is.Path == path {
			return true
		}
	}
	return false
}

type issues struct {
	subject string
	list    []Issue
}

func (is *issues) add(path, msg string) {
	is.list = append(is.list, Issue{Path: path, Message: msg})
}

func (is *issues) err() error {
	if len(is.list) == 0 {
		return nil
	}
	return &SchemaError{Subject: is.subject, Issues: is.list}
}

// ValidateState checks st against the full state schema: non-empty choices,
// a known display order and known validation codes on every field.
func ValidateState(st model.State) error {
	is := &issues{subject: "state"}
	f := st.Fields

	if len(f.Choices.Value) == 0 {
		is.add("fields.choices.value", msgNoChoices)
	}
	if !f.DisplayOrder.Value.Valid() {
		is.add("fields.displayOrder.value", msgBadDisplayOrder)
	}
	for _, key := range model.FieldKeys() {
		v := f.Validation(key)
		if !v.ErrorCode.Valid() {
			is.add("fields."+string(key)+".validation.errorCode", msgBadErrorCode)
		}
		if !v.WarnCode.Valid() {
			is.add("fields."+string(key)+".validation.warnCode", msgBadWarnCode)
		}
	}
	if st.UpdatedAt != nil && *st.UpdatedAt < 0 {
		is.add("updatedAt", msgUpdatedAtInvalid)
	}
	return is.err()
}

// ValidatePayload checks p against the wire schema.
func ValidatePayload(p model.Payload) error {
	is := &issues{subject: "payload"}

	if len(p.Choices) == 0 {
		is.add("choices", msgNoChoices)
	}
	if !p.DisplayOrder.Valid() {
		is.add("displayOrder", msgBadDisplayOrder)
	}
	if p.Label == "" {
		is.add("label", msgEmptyLabel)
	}
	if len(p.UniqueValues()) > model.ChoicesMaxNumber {
		is.add("choices", msgTooManyUnique)
	}
	return is.err()
}
