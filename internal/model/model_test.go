package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSplitString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		n        int
		wantHead string
		wantTail string
	}{
		{name: "split at length", text: "hello world", n: 5, wantHead: "hello", wantTail: " world"},
		{name: "negative length", text: "hello world", n: -1, wantHead: "hello world", wantTail: ""},
		{name: "length past end", text: "hello world", n: 20, wantHead: "hello world", wantTail: ""},
		{name: "empty text", text: "", n: 5, wantHead: "", wantTail: ""},
		{name: "zero length", text: "hello world", n: 0, wantHead: "", wantTail: "hello world"},
		{name: "exact length", text: "hello", n: 5, wantHead: "hello", wantTail: ""},
		{name: "multibyte runes", text: "héllo wörld", n: 7, wantHead: "héllo w", wantTail: "örld"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			head, tail := SplitString(tc.text, tc.n)
			if head != tc.wantHead || tail != tc.wantTail {
				t.Fatalf("SplitString(%q, %d) = (%q, %q); want (%q, %q)", tc.text, tc.n, head, tail, tc.wantHead, tc.wantTail)
			}
		})
	}
}

func TestTooLong_CountsRunes(t *testing.T) {
	t.Parallel()

	ascii := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" // 40
	if TooLong(ascii) {
		t.Fatalf("40 runes should not be too long")
	}
	if !TooLong(ascii + "a") {
		t.Fatalf("41 runes should be too long")
	}
	wide := "éééééééééééééééééééééééééééééééééééééééé" // 40 runes, 80 bytes
	if TooLong(wide) {
		t.Fatalf("expected rune counting, got byte counting")
	}
}

func TestInitialState_IsFreshCopy(t *testing.T) {
	t.Parallel()

	a := InitialState()
	a.Fields.Choices.Value = append(a.Fields.Choices.Value, "x")
	a.Fields.Label.Value = "changed"

	b := InitialState()
	if len(b.Fields.Choices.Value) != 0 || b.Fields.Label.Value != "" {
		t.Fatalf("InitialState leaked mutations: %#v", b.Fields)
	}
	if b.Fields.Choices.Validation.ErrorCode != ErrorRequired {
		t.Fatalf("choices should start required; got %q", b.Fields.Choices.Validation.ErrorCode)
	}
	if !b.Fields.Required.Value {
		t.Fatalf("required flag should default to true")
	}
	if b.UpdatedAt != nil {
		t.Fatalf("updatedAt should start nil")
	}
}

func TestState_CloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	s := InitialState()
	s.Fields.Choices.Value = []string{"a", "b"}
	s.UpdatedAt = Stamp(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	c := s.Clone()
	c.Fields.Choices.Value[0] = "z"
	*c.UpdatedAt = 0

	if s.Fields.Choices.Value[0] != "a" {
		t.Fatalf("clone shares choices backing array")
	}
	if *s.UpdatedAt == 0 {
		t.Fatalf("clone shares updatedAt pointer")
	}
}

func TestState_CloneKeepsEmptyChoicesNonNil(t *testing.T) {
	t.Parallel()

	s := InitialState()
	s.Fields.Choices.Value = []string{}

	c := s.Clone()
	if c.Fields.Choices.Value == nil {
		t.Fatalf("empty choices became nil")
	}
	b, err := json.Marshal(c.Fields.Choices)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"value":[]`) {
		t.Fatalf("choices = %s; want an empty list", b)
	}
}

func TestDisplayOrder_Cycle(t *testing.T) {
	t.Parallel()

	d := DisplayAlphabeticallyAscending
	seen := []DisplayOrder{d}
	for i := 0; i < len(DisplayOrders())-1; i++ {
		d = d.Next()
		seen = append(seen, d)
	}
	if diff := cmp.Diff(DisplayOrders(), seen); diff != "" {
		t.Fatalf("Next cycle mismatch (-want +got):\n%s", diff)
	}
	if got := DisplayAlphabeticallyAscending.Prev(); got != DisplayNaturalNumberDescending {
		t.Fatalf("Prev wrap = %q", got)
	}
	if DisplayOrder("nope").Valid() {
		t.Fatalf("unknown display order reported valid")
	}
	if got := DisplayPredefined.Label(); got != "Predefined Order" {
		t.Fatalf("label = %q", got)
	}
}

func TestPayload_UniqueValues(t *testing.T) {
	t.Parallel()

	p := Payload{Choices: []string{"a", "b", "a"}, Default: "c"}
	if diff := cmp.Diff([]string{"a", "b", "c"}, p.UniqueValues()); diff != "" {
		t.Fatalf("unique values mismatch (-want +got):\n%s", diff)
	}
	p.Default = "b"
	if got := len(p.UniqueValues()); got != 2 {
		t.Fatalf("expected default to dedupe against choices; got %d values", got)
	}
}
