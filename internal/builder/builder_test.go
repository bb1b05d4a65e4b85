package builder

import (
	"strings"
	"testing"
	"time"

	"fieldbuilder/internal/model"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestBuilder_DispatchNotifiesListeners(t *testing.T) {
	t.Parallel()

	b := New(model.InitialState(), WithClock(fixedClock(t0)))

	var seen []model.State
	b.Subscribe(func(st model.State) { seen = append(seen, st) })
	b.Subscribe(nil)

	b.SetNewChoice("red")
	b.AddNewChoice()
	got := b.SetLabel("Color")

	if len(seen) != 3 {
		t.Fatalf("listener calls = %d; want 3", len(seen))
	}
	if diff := cmp.Diff(got, seen[2]); diff != "" {
		t.Fatalf("listener state mismatch (-returned +listener):\n%s", diff)
	}
	if diff := cmp.Diff(got, b.State()); diff != "" {
		t.Fatalf("stored state mismatch (-returned +stored):\n%s", diff)
	}
	if b.HasErrors() {
		t.Fatalf("unexpected errors: %#v", got.Fields)
	}
}

func TestBuilder_StateIsACopy(t *testing.T) {
	t.Parallel()

	b := New(model.InitialState(), WithClock(fixedClock(t0)))
	b.SetNewChoice("a")
	b.AddNewChoice()

	st := b.State()
	st.Fields.Choices.Value[0] = "mutated"
	if b.State().Fields.Choices.Value[0] != "a" {
		t.Fatalf("State() leaked internal slice")
	}
}

func TestBuilder_ResetAllClearsUpdatedAt(t *testing.T) {
	t.Parallel()

	b := New(model.InitialState(), WithClock(fixedClock(t0)))
	b.SetRequired(false)
	if !b.State().Touched() {
		t.Fatalf("expected touched state after edit")
	}
	b.ResetAll()
	if diff := cmp.Diff(model.InitialState(), b.State()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_LogsDispatch(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	b := New(model.InitialState(), WithLogger(zap.New(core)), WithClock(fixedClock(t0)))
	b.SetDisplayOrder(model.DisplayPredefined)

	entries := logs.FilterMessage("dispatch").All()
	if len(entries) != 1 {
		t.Fatalf("dispatch log entries = %d; want 1", len(entries))
	}
	if got := entries[0].ContextMap()["action"]; got != string(ActionSetDisplayOrder) {
		t.Fatalf("logged action = %v; want %q", got, ActionSetDisplayOrder)
	}
}

func TestMessages_UntouchedIsSilent(t *testing.T) {
	t.Parallel()

	if got := Messages(model.InitialState()); len(got) != 0 {
		t.Fatalf("untouched state should report nothing; got %#v", got)
	}
}

func TestMessages_TouchedState(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0,
		SetNewChoice{Value: "a"}, AddNewChoice{},
		SetNewChoice{Value: "a"},
		SetLabel{Value: strings.Repeat("l", 41)},
	)
	want := map[model.FieldKey]FieldMessages{
		model.KeyLabel:     {Warning: msgTextTooLong},
		model.KeyNewChoice: {Error: msgDuplicated},
	}
	if diff := cmp.Diff(want, Messages(st)); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	st = Reduce(st, RemoveChoice{Index: 0}, t0)
	got := Messages(st)
	if got[model.KeyChoices].Error != msgRequired {
		t.Fatalf("choices message = %#v; want required", got[model.KeyChoices])
	}
}

func TestControls(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0, SetNewChoice{Value: "a"})
	if !CanAddNewChoice(st, false) {
		t.Fatalf("add should be enabled for a fresh value")
	}
	if CanAddNewChoice(st, true) {
		t.Fatalf("add should be disabled while a submit is pending")
	}
	if CanSubmit(st, false) {
		t.Fatalf("submit should be disabled while there are errors")
	}

	st = reduceAll(st, t0, AddNewChoice{}, SetLabel{Value: "Label"})
	if CanAddNewChoice(st, false) {
		t.Fatalf("add should be disabled for an empty value")
	}
	if !CanSubmit(st, false) || CanSubmit(st, true) {
		t.Fatalf("submit enablement wrong for valid state")
	}
	if !CanReset(st, false) || CanReset(model.InitialState(), false) {
		t.Fatalf("reset enablement wrong")
	}
}

func TestDefaultChoiceSuggestions(t *testing.T) {
	t.Parallel()

	st := model.InitialState()
	st.Fields.Choices.Value = []string{"Apple", "banana", "Pineapple"}
	st.Fields.DefaultChoice.Value = "APP"

	if diff := cmp.Diff([]string{"Apple", "Pineapple"}, DefaultChoiceSuggestions(st)); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}
