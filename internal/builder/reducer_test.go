package builder

import (
	"testing"
	"time"

	"fieldbuilder/internal/model"

	"github.com/google/go-cmp/cmp"
)

var t0 = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

func reduceAll(st model.State, now time.Time, actions ...Action) model.State {
	for _, a := range actions {
		st = Reduce(st, a, now)
	}
	return st
}

func TestReduce_AddNewChoice(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0,
		SetNewChoice{Value: "red"},
		AddNewChoice{},
	)
	if diff := cmp.Diff([]string{"red"}, st.Fields.Choices.Value); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if st.Fields.NewChoice.Value != "" {
		t.Fatalf("newChoice should be cleared; got %q", st.Fields.NewChoice.Value)
	}
	if !st.Fields.Choices.IsUpdated || !st.Fields.NewChoice.IsUpdated {
		t.Fatalf("choices and newChoice should be marked updated")
	}
	if st.Fields.Choices.Validation.ErrorCode != model.ErrorNone {
		t.Fatalf("choices should revalidate clean; got %#v", st.Fields.Choices.Validation)
	}
	if st.UpdatedAt == nil || *st.UpdatedAt != t0.UnixMilli() {
		t.Fatalf("updatedAt = %v; want %d", st.UpdatedAt, t0.UnixMilli())
	}
}

func TestReduce_AddThenRemoveRestoresChoices(t *testing.T) {
	t.Parallel()

	base := reduceAll(model.InitialState(), t0,
		SetNewChoice{Value: "a"}, AddNewChoice{},
		SetNewChoice{Value: "b"}, AddNewChoice{},
	)
	before := append([]string(nil), base.Fields.Choices.Value...)

	withC := reduceAll(base, t0, SetNewChoice{Value: "c"}, AddNewChoice{})
	last := len(withC.Fields.Choices.Value) - 1
	after := Reduce(withC, RemoveChoice{Index: last}, t0)

	if diff := cmp.Diff(before, after.Fields.Choices.Value); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if after.Fields.NewChoice.Value != "" {
		t.Fatalf("newChoice is not restored by RemoveChoice; got %q", after.Fields.NewChoice.Value)
	}
}

func TestReduce_RemoveChoiceOutOfRangeIsNoop(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0, SetNewChoice{Value: "a"}, AddNewChoice{})
	later := t0.Add(time.Minute)

	for _, idx := range []int{-1, 1, 99} {
		got := Reduce(st, RemoveChoice{Index: idx}, later)
		if diff := cmp.Diff([]string{"a"}, got.Fields.Choices.Value); diff != "" {
			t.Fatalf("index %d changed choices (-want +got):\n%s", idx, diff)
		}
		if got.UpdatedAt == nil || *got.UpdatedAt != later.UnixMilli() {
			t.Fatalf("index %d: updatedAt should still be stamped", idx)
		}
	}
}

func TestReduce_RemoveLastChoiceRevalidates(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0, SetNewChoice{Value: "a"}, AddNewChoice{}, RemoveChoice{Index: 0})
	if st.Fields.Choices.Validation.ErrorCode != model.ErrorRequired {
		t.Fatalf("empty choices should be required; got %#v", st.Fields.Choices.Validation)
	}
}

func TestReduce_FlagsSkipRevalidation(t *testing.T) {
	t.Parallel()

	// A deliberately stale label code survives flag toggles.
	st := model.InitialState()
	st.Fields.Label.Validation = model.Validation{}

	got := reduceAll(st, t0,
		SetDisplayOrder{Value: model.DisplayPredefined},
		SetMultiselect{Value: true},
		SetRequired{Value: false},
	)
	if got.Fields.Label.Validation.ErrorCode != model.ErrorNone {
		t.Fatalf("flag toggles should not revalidate; label now %#v", got.Fields.Label.Validation)
	}
	if got.Fields.DisplayOrder.Value != model.DisplayPredefined || !got.Fields.Multiselect.Value || got.Fields.Required.Value {
		t.Fatalf("flags not applied: %#v", got.Fields)
	}
	if !got.Fields.DisplayOrder.IsUpdated || !got.Fields.Multiselect.IsUpdated || !got.Fields.Required.IsUpdated {
		t.Fatalf("flags should be marked updated")
	}
	if got.UpdatedAt == nil {
		t.Fatalf("flag toggles stamp updatedAt")
	}

	// The next text edit revalidates everything.
	got = Reduce(got, SetDefaultChoice{Value: ""}, t0)
	if got.Fields.Label.Validation.ErrorCode != model.ErrorRequired {
		t.Fatalf("text edit should revalidate label; got %#v", got.Fields.Label.Validation)
	}
}

func TestReduce_ResetAll(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0,
		SetLabel{Value: "Color"},
		SetNewChoice{Value: "red"}, AddNewChoice{},
		ResetAll{},
	)
	if diff := cmp.Diff(model.InitialState(), st); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_SetNewState(t *testing.T) {
	t.Parallel()

	snapshot := model.InitialState()
	snapshot.Fields.Choices.Value = []string{"x", "y"}
	snapshot.Fields.Label.Value = "Server label"
	snapshot.Fields.DefaultChoice.Value = "x"
	snapshot.Fields.Label.IsUpdated = true

	later := t0.Add(time.Hour)
	got := Reduce(model.InitialState(), SetNewState{State: snapshot}, later)

	if diff := cmp.Diff([]string{"x", "y"}, got.Fields.Choices.Value); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if got.Fields.Label.Value != "Server label" || !got.Fields.Label.IsUpdated {
		t.Fatalf("label not replaced: %#v", got.Fields.Label)
	}
	if HasErrors(got) {
		t.Fatalf("revalidated snapshot should have no errors: %#v", got.Fields)
	}
	if got.UpdatedAt == nil || *got.UpdatedAt != later.UnixMilli() {
		t.Fatalf("updatedAt should be stamped")
	}

	snapshot.Fields.Choices.Value[0] = "mutated"
	if got.Fields.Choices.Value[0] != "x" {
		t.Fatalf("reducer aliased the snapshot's choices")
	}
}

func TestReduce_IsDeterministicAndPure(t *testing.T) {
	t.Parallel()

	st := reduceAll(model.InitialState(), t0, SetNewChoice{Value: "a"}, AddNewChoice{}, SetLabel{Value: "L"})
	frozen := st.Clone()

	actions := []Action{
		AddNewChoice{},
		RemoveChoice{Index: 0},
		SetDefaultChoice{Value: "a"},
		SetDisplayOrder{Value: model.DisplayNaturalNumberDescending},
		SetLabel{Value: "Other"},
		SetMultiselect{Value: true},
		SetNewChoice{Value: "b"},
		SetNewState{State: frozen},
		SetRequired{Value: false},
		ResetAll{},
	}
	for _, a := range actions {
		first := Reduce(st, a, t0)
		second := Reduce(st, a, t0)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%s not deterministic (-first +second):\n%s", a.Type(), diff)
		}
		if diff := cmp.Diff(frozen, st); diff != "" {
			t.Fatalf("%s mutated its input (-want +got):\n%s", a.Type(), diff)
		}
	}
}
