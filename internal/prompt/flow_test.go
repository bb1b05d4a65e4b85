package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/model"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var t0 = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) count(msg string) int {
	n := 0
	for _, m := range s.infoMessages {
		if m == msg {
			n++
		}
	}
	return n
}

func newBuilder(choices ...string) *builder.Builder {
	b := builder.New(model.InitialState(), builder.WithClock(func() time.Time { return t0 }))
	for _, c := range choices {
		b.SetNewChoice(c)
		b.AddNewChoice()
	}
	return b
}

type fieldValues struct {
	Label        string
	Choices      []string
	Default      string
	DisplayOrder model.DisplayOrder
	Multiselect  bool
	Required     bool
	NewChoice    string
}

func valuesOf(st model.State) fieldValues {
	f := st.Fields
	return fieldValues{
		Label:        f.Label.Value,
		Choices:      f.Choices.Value,
		Default:      f.DefaultChoice.Value,
		DisplayOrder: f.DisplayOrder.Value,
		Multiselect:  f.Multiselect.Value,
		Required:     f.Required.Value,
		NewChoice:    f.NewChoice.Value,
	}
}

func TestRun_FullWalkthrough(t *testing.T) {
	t.Parallel()

	d := &stubDriver{
		inputs: []string{"Color", "red", "red", "green"},
		// add, add (duplicate), add, remove -> red, done, default green, predefined
		selectIdx: []int{0, 0, 0, 1, 0, 2, 1, 2},
		confirm:   []bool{true, false},
	}
	b := newBuilder()

	if err := Run(context.Background(), b, d, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := fieldValues{
		Label:        "Color",
		Choices:      []string{"green"},
		Default:      "green",
		DisplayOrder: model.DisplayPredefined,
		Multiselect:  true,
		Required:     false,
	}
	if diff := cmp.Diff(want, valuesOf(b.State())); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if d.count("Error: This value already exists in the list") != 1 {
		t.Fatalf("expected one duplicate message; got %q", d.infoMessages)
	}
	last := d.infoMessages[len(d.infoMessages)-1]
	if !strings.Contains(last, "Display order: Predefined Order") {
		t.Fatalf("summary = %q", last)
	}
}

func TestRun_DoneWithoutChoicesOnlyReports(t *testing.T) {
	t.Parallel()

	d := &stubDriver{
		inputs:    []string{"Size", "S"},
		selectIdx: []int{2, 0, 2, 0, 0},
		confirm:   []bool{false, true},
	}
	core, logs := observer.New(zap.DebugLevel)
	b := builder.New(model.InitialState(),
		builder.WithClock(func() time.Time { return t0 }),
		builder.WithLogger(zap.New(core)),
	)

	if err := Run(context.Background(), b, d, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := d.count("Error: This field is required and cannot be left empty"); got != 1 {
		t.Fatalf("required messages = %d; want 1 (%q)", got, d.infoMessages)
	}
	for _, e := range logs.FilterMessage("dispatch").All() {
		if a := e.ContextMap()["action"]; a == string(builder.ActionSetNewState) {
			t.Fatalf("prompt should not replace the whole state; dispatched %v", a)
		}
	}
}

func TestRun_RequiresLabelAndChoices(t *testing.T) {
	t.Parallel()

	d := &stubDriver{
		inputs:    []string{"", "Size", "S"},
		selectIdx: []int{2, 0, 2, 0, 0},
		confirm:   []bool{false, true},
	}
	b := newBuilder()

	if err := Run(context.Background(), b, d, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := d.count("Error: This field is required and cannot be left empty"); got != 2 {
		t.Fatalf("required messages = %d; want 2 (%q)", got, d.infoMessages)
	}
	want := fieldValues{
		Label:        "Size",
		Choices:      []string{"S"},
		DisplayOrder: model.DisplayAlphabeticallyAscending,
		Required:     true,
	}
	if diff := cmp.Diff(want, valuesOf(b.State())); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FullChoicesRejectNewValues(t *testing.T) {
	t.Parallel()

	d := &stubDriver{
		inputs: []string{"L", "f", "zzz"},
		// add (refused), done, default other, default "a", first order
		selectIdx: []int{0, 2, 6, 1, 0},
		confirm:   []bool{false, false},
	}
	b := newBuilder("a", "b", "c", "d", "e")

	if err := Run(context.Background(), b, d, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	st := b.State()
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, st.Fields.Choices.Value); diff != "" {
		t.Fatalf("choices changed (-want +got):\n%s", diff)
	}
	if st.Fields.DefaultChoice.Value != "a" || st.Fields.NewChoice.Value != "" {
		t.Fatalf("default = %q, newChoice = %q", st.Fields.DefaultChoice.Value, st.Fields.NewChoice.Value)
	}
	if d.count("Note: You have reached the maximum number of items") < 2 {
		t.Fatalf("expected max items notes; got %q", d.infoMessages)
	}
	var tooMany bool
	for _, m := range d.infoMessages {
		if strings.HasPrefix(m, "Error: The entered value is new") {
			tooMany = true
		}
	}
	if !tooMany {
		t.Fatalf("missing default too_many message; got %q", d.infoMessages)
	}
}

func TestRun_Submit(t *testing.T) {
	t.Parallel()

	script := func() *stubDriver {
		return &stubDriver{
			inputs:    []string{"Color"},
			selectIdx: []int{2, 1, 0},
			confirm:   []bool{false, true, true},
		}
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		d := script()
		var calls int
		err := Run(context.Background(), newBuilder("red"), d, Options{
			Submit: func(context.Context, *builder.Builder) error {
				calls++
				return nil
			},
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if calls != 1 || d.count("Field saved.") != 1 {
			t.Fatalf("calls = %d, infos = %q", calls, d.infoMessages)
		}
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		d := script()
		boom := errors.New("500 Internal Server Error")
		err := Run(context.Background(), newBuilder("red"), d, Options{
			Submit: func(context.Context, *builder.Builder) error { return boom },
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v; want %v", err, boom)
		}
		if d.count("Submission failed. Please try again. 500 Internal Server Error") != 1 {
			t.Fatalf("infos = %q", d.infoMessages)
		}
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()
		d := script()
		d.confirm[2] = false
		err := Run(context.Background(), newBuilder("red"), d, Options{
			Submit: func(context.Context, *builder.Builder) error {
				t.Errorf("submit should not run")
				return nil
			},
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	})
}

func TestRun_StopsOnDriverError(t *testing.T) {
	t.Parallel()

	d := &stubDriver{inputs: []string{"Color"}}
	b := newBuilder()
	err := Run(context.Background(), b, d, Options{})
	if err == nil || err.Error() != "no select scripted" {
		t.Fatalf("err = %v", err)
	}
	if b.State().Fields.Label.Value != "Color" {
		t.Fatalf("answers given before the error should be kept")
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateSurveyErr(terminal.InterruptErr), ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted")
	}
	other := errors.New("eof")
	if translateSurveyErr(other) != other {
		t.Fatalf("other errors pass through")
	}
}
