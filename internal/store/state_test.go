package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"fieldbuilder/internal/builder"
	"fieldbuilder/internal/model"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Close() error                                      { return nil }

func editedState() model.State {
	st := model.InitialState()
	st.Fields.Choices = model.Field[[]string]{Value: []string{"red", "green"}, IsUpdated: true}
	st.Fields.DefaultChoice = model.Field[string]{Value: "red", IsUpdated: true}
	st.Fields.DisplayOrder = model.Field[model.DisplayOrder]{Value: model.DisplayNaturalNumberAscending, IsUpdated: true}
	st.Fields.Label = model.Field[string]{Value: "Color", IsUpdated: true}
	st.Fields.Multiselect = model.Field[bool]{Value: true, IsUpdated: true}
	st.Fields.NewChoice = model.Field[string]{Value: "blue", IsUpdated: true}
	st.Fields.Required = model.Field[bool]{Value: false, IsUpdated: true}
	st.UpdatedAt = model.Stamp(t0)
	return st
}

func TestSaveThenLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	want := editedState()

	SaveState(ctx, want, kv, model.StorageKey, nil)
	got := LoadState(ctx, kv, model.StorageKey, nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveThenLoad_AfterRemovingLastChoice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	b := builder.New(model.InitialState(), builder.WithClock(func() time.Time { return t0 }))
	b.SetNewChoice("a")
	b.AddNewChoice()
	want := b.RemoveChoice(0)

	SaveState(ctx, want, kv, model.StorageKey, nil)
	raw, _, _ := kv.Get(ctx, model.StorageKey)
	if !strings.Contains(raw, `"choices":{"value":[]`) {
		t.Fatalf("persisted choices should be an empty list: %s", raw)
	}

	core, logs := observer.New(zap.WarnLevel)
	got := LoadState(ctx, kv, model.StorageKey, zap.New(core))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if logs.Len() != 0 {
		t.Fatalf("reload should not warn; got %v", logs.All())
	}
}

func TestLoadState_MissingKeyIsInitial(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	got := LoadState(context.Background(), NewMemoryKV(), model.StorageKey, zap.New(core))
	if diff := cmp.Diff(model.InitialState(), got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if logs.Len() != 0 {
		t.Fatalf("missing key should not log; got %d entries", logs.Len())
	}
}

func TestLoadState_CorruptTextIsInitial(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"{not json", "null", "[]", `"text"`, "42"} {
		kv := NewMemoryKV()
		_ = kv.Set(context.Background(), model.StorageKey, raw)

		core, logs := observer.New(zap.WarnLevel)
		got := LoadState(context.Background(), kv, model.StorageKey, zap.New(core))
		if diff := cmp.Diff(model.InitialState(), got); diff != "" {
			t.Fatalf("%q: state mismatch (-want +got):\n%s", raw, diff)
		}
		if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
			t.Fatalf("%q: expected one warning; got %d", raw, logs.Len())
		}
	}
}

func TestLoadState_ReadErrorIsInitial(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	got := LoadState(context.Background(), failingKV{err: errors.New("disk gone")}, model.StorageKey, zap.New(core))
	if diff := cmp.Diff(model.InitialState(), got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	entries := logs.FilterMessage("load state: read failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected read failure log; got %d", len(entries))
	}
}

func TestLoadState_ReconcilesFieldByField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()

	b, err := json.Marshal(editedState())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	fields := doc["fields"].(map[string]any)
	fields["label"] = map[string]any{"value": 12, "isUpdated": true, "validation": map[string]any{"errorCode": "", "warnCode": ""}}
	fields["displayOrder"].(map[string]any)["value"] = "sideways"
	fields["required"].(map[string]any)["validation"] = map[string]any{"errorCode": "bogus", "warnCode": ""}
	delete(fields, "multiselect")
	fields["color"] = map[string]any{"value": "x"}
	doc["extra"] = true
	b, _ = json.Marshal(doc)
	_ = kv.Set(ctx, model.StorageKey, string(b))

	core, logs := observer.New(zap.WarnLevel)
	got := LoadState(ctx, kv, model.StorageKey, zap.New(core))

	want := editedState()
	def := model.InitialState()
	want.Fields.Label = def.Fields.Label
	want.Fields.DisplayOrder = def.Fields.DisplayOrder
	want.Fields.Required = def.Fields.Required
	want.Fields.Multiselect = def.Fields.Multiselect
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reconciled state mismatch (-want +got):\n%s", diff)
	}
	if n := logs.FilterMessage("load state: field malformed, keeping default").Len(); n != 3 {
		t.Fatalf("expected 3 malformed-field warnings; got %d", n)
	}
}

func TestLoadState_DoesNotRevalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	st := editedState()
	st.Fields.Choices.Value = []string{}
	st.Fields.Choices.Validation = model.Validation{}
	SaveState(ctx, st, kv, model.StorageKey, nil)

	got := LoadState(ctx, kv, model.StorageKey, nil)
	if got.Fields.Choices.Validation.ErrorCode != model.ErrorNone {
		t.Fatalf("persisted validation should be kept as-is; got %#v", got.Fields.Choices.Validation)
	}
}

func TestSaveState_LogsFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	SaveState(context.Background(), editedState(), failingKV{err: errors.New("read-only")}, model.StorageKey, zap.New(core))

	entries := logs.FilterMessage("save state: write failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected write failure log; got %d", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "read-only" {
		t.Fatalf("logged error = %v", got)
	}
}
