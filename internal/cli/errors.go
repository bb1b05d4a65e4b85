package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fieldbuilder/internal/model"
	"fieldbuilder/internal/submit"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// fieldErrorsError reports the error codes that block submission.
type fieldErrorsError struct {
	codes map[model.FieldKey]model.ErrorCode
}

func (e fieldErrorsError) Error() string {
	parts := make([]string, 0, len(e.codes))
	for k, c := range e.codes {
		parts = append(parts, fmt.Sprintf("%s (%s)", k, c))
	}
	sort.Strings(parts)
	return "field has errors: " + strings.Join(parts, ", ")
}

func errorCodes(st model.State) map[model.FieldKey]model.ErrorCode {
	out := map[model.FieldKey]model.ErrorCode{}
	for _, k := range model.FieldKeys() {
		if c := st.Fields.Validation(k).ErrorCode; c != model.ErrorNone {
			out[k] = c
		}
	}
	return out
}

func warnCodes(st model.State) map[model.FieldKey]model.WarnCode {
	out := map[model.FieldKey]model.WarnCode{}
	for _, k := range model.FieldKeys() {
		if c := st.Fields.Validation(k).WarnCode; c != model.WarnNone {
			out[k] = c
		}
	}
	return out
}

// submitFailedError carries the banner text shown for a failed submission.
type submitFailedError struct{ err error }

func (e submitFailedError) Error() string { return submit.FailureText(e.err) }
func (e submitFailedError) Unwrap() error { return e.err }

// reportedError marks an error already printed to stderr.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already printed by the command that returned it.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
