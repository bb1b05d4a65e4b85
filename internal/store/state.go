package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"fieldbuilder/internal/model"

	"go.uber.org/zap"
)

// LoadState reads the persisted state for key and reconciles it over the
// initial state. It never fails: a missing key, a read error or unparseable
// text all yield the initial state.
//
// Known fields are taken one by one. A field that is missing, malformed or
// carries unknown codes keeps its default; unknown keys are ignored. The result
// is not revalidated.
func LoadState(ctx context.Context, kv KV, key string, log *zap.Logger) model.State {
	if log == nil {
		log = zap.NewNop()
	}
	st := model.InitialState()
	if kv == nil {
		return st
	}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		log.Warn("load state: read failed", zap.String("key", key), zap.Error(err))
		return st
	}
	if !ok {
		return st
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil || top == nil {
		if err == nil {
			err = errors.New("not a JSON object")
		}
		log.Warn("load state: corrupt snapshot, using defaults", zap.String("key", key), zap.Error(err))
		return model.InitialState()
	}

	if rawFields, ok := top["fields"]; ok {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rawFields, &fields); err != nil {
			log.Warn("load state: fields malformed, using defaults", zap.String("key", key), zap.Error(err))
		} else {
			reconcileFields(&st.Fields, fields, log)
		}
	}

	if rawTS, ok := top["updatedAt"]; ok && !isNull(rawTS) {
		var ts int64
		if err := json.Unmarshal(rawTS, &ts); err != nil {
			log.Warn("load state: updatedAt malformed, ignoring", zap.Error(err))
		} else {
			st.UpdatedAt = &ts
		}
	}
	return st
}

func reconcileFields(dst *model.Fields, src map[string]json.RawMessage, log *zap.Logger) {
	take := func(key model.FieldKey, ok bool) {
		if _, present := src[string(key)]; present && !ok {
			log.Warn("load state: field malformed, keeping default", zap.String("field", string(key)))
		}
	}

	var ok bool
	dst.Choices, ok = reconcile(src[string(model.KeyChoices)], dst.Choices, nil)
	take(model.KeyChoices, ok)
	dst.DefaultChoice, ok = reconcile(src[string(model.KeyDefaultChoice)], dst.DefaultChoice, nil)
	take(model.KeyDefaultChoice, ok)
	dst.DisplayOrder, ok = reconcile(src[string(model.KeyDisplayOrder)], dst.DisplayOrder, model.DisplayOrder.Valid)
	take(model.KeyDisplayOrder, ok)
	dst.Label, ok = reconcile(src[string(model.KeyLabel)], dst.Label, nil)
	take(model.KeyLabel, ok)
	dst.Multiselect, ok = reconcile(src[string(model.KeyMultiselect)], dst.Multiselect, nil)
	take(model.KeyMultiselect, ok)
	dst.NewChoice, ok = reconcile(src[string(model.KeyNewChoice)], dst.NewChoice, nil)
	take(model.KeyNewChoice, ok)
	dst.Required, ok = reconcile(src[string(model.KeyRequired)], dst.Required, nil)
	take(model.KeyRequired, ok)
}

// persistedField requires every member to be present.
type persistedField[T any] struct {
	Value      *T                `json:"value"`
	IsUpdated  *bool             `json:"isUpdated"`
	Validation *model.Validation `json:"validation"`
}

func reconcile[T any](raw json.RawMessage, def model.Field[T], valid func(T) bool) (model.Field[T], bool) {
	if len(raw) == 0 {
		return def, false
	}
	var pf persistedField[T]
	if err := json.Unmarshal(raw, &pf); err != nil {
		return def, false
	}
	if pf.Value == nil || pf.IsUpdated == nil || pf.Validation == nil || !pf.Validation.Valid() {
		return def, false
	}
	if valid != nil && !valid(*pf.Value) {
		return def, false
	}
	return model.Field[T]{Value: *pf.Value, IsUpdated: *pf.IsUpdated, Validation: *pf.Validation}, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// SaveState writes st under key. Failures are logged and dropped.
func SaveState(ctx context.Context, st model.State, kv KV, key string, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	if kv == nil {
		return
	}
	b, err := json.Marshal(st)
	if err != nil {
		log.Warn("save state: encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := kv.Set(ctx, key, string(b)); err != nil {
		log.Warn("save state: write failed", zap.String("key", key), zap.Error(err))
	}
}
