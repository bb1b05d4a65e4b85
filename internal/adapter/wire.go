package adapter

import (
	"encoding/json"
	"errors"
	"fmt"

	"fieldbuilder/internal/model"
)

const (
	msgMissing   = "Required."
	msgWrongType = "Expected %s."
)

// wirePayload mirrors model.Payload with every member optional so absent
// members can be told apart from zero values.
type wirePayload struct {
	Choices      *[]string           `json:"choices"`
	Default      *string             `json:"default"`
	DisplayOrder *model.DisplayOrder `json:"displayOrder"`
	Label        *string             `json:"label"`
	Multiselect  *bool               `json:"multiselect"`
	Required     *bool               `json:"required"`
}

// DecodePayload parses a payload from its JSON text. Every member must be
// present and non-null. Missing or mistyped members are reported together with
// the ValidatePayload issues as a *SchemaError.
func DecodePayload(raw []byte) (model.Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(raw, &w); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			return model.Payload{}, &SchemaError{
				Subject: "payload",
				Issues:  []Issue{{Path: te.Field, Message: fmt.Sprintf(msgWrongType, te.Type.String())}},
			}
		}
		return model.Payload{}, fmt.Errorf("decode payload: %w", err)
	}

	is := &issues{subject: "payload"}
	var p model.Payload
	if w.Choices == nil {
		is.add("choices", msgMissing)
	} else {
		p.Choices = *w.Choices
	}
	if w.Default == nil {
		is.add("default", msgMissing)
	} else {
		p.Default = *w.Default
	}
	if w.DisplayOrder == nil {
		is.add("displayOrder", msgMissing)
	} else {
		p.DisplayOrder = *w.DisplayOrder
	}
	if w.Label == nil {
		is.add("label", msgMissing)
	} else {
		p.Label = *w.Label
	}
	if w.Multiselect == nil {
		is.add("multiselect", msgMissing)
	} else {
		p.Multiselect = *w.Multiselect
	}
	if w.Required == nil {
		is.add("required", msgMissing)
	} else {
		p.Required = *w.Required
	}

	var se *SchemaError
	if err := ValidatePayload(p); errors.As(err, &se) {
		for _, issue := range se.Issues {
			// A missing member already has its own issue.
			if !hasPath(is.list, issue.Path) {
				is.list = append(is.list, issue)
			}
		}
	}
	if err := is.err(); err != nil {
		return model.Payload{}, err
	}
	return p, nil
}

func hasPath(list []Issue, path string) bool {
	for _, is := range list {
		if is.Path == path {
			return true
		}
	}
	return false
}
