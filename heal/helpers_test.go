package heal

import (
	"context"
	"encoding/json"
)

// fakeProvider implements all four contracts through overridable funcs.
// Unset funcs behave permissively: everything validates, transforms copy
// the legacy map and tag it, references resolve.
type fakeProvider struct {
	entryType string

	validate     func(map[string]any) error
	transform    func(map[string]any) (map[string]any, error)
	refs         func(map[string]any) []Reference
	resolve      func(context.Context, Reference) (bool, error)
	onValidation func(string, error, bool) Decision
	onMissing    func(string, Reference) Decision
}

var _ Provider = (*fakeProvider)(nil)

func (p *fakeProvider) EntryType() string                      { return p.entryType }
func (p *fakeProvider) SchemaVersion() int                     { return 2 }
func (p *fakeProvider) Validator() Validator                   { return p }
func (p *fakeProvider) Transformer() Transformer               { return p }
func (p *fakeProvider) ReferenceResolver() ReferenceResolver   { return p }
func (p *fakeProvider) DegradationHandler() DegradationHandler { return p }

func (p *fakeProvider) Validate(data map[string]any) error {
	if p.validate == nil {
		return nil
	}
	return p.validate(data)
}

func (p *fakeProvider) TransformLegacy(legacy map[string]any) (map[string]any, error) {
	if p.transform != nil {
		return p.transform(legacy)
	}
	out := make(map[string]any, len(legacy)+1)
	for k, v := range legacy {
		out[k] = v
	}
	out["schema_version"] = float64(2)
	return out, nil
}

func (p *fakeProvider) References(data map[string]any) []Reference {
	if p.refs == nil {
		return nil
	}
	return p.refs(data)
}

func (p *fakeProvider) Resolve(ctx context.Context, ref Reference) (bool, error) {
	if p.resolve == nil {
		return true, nil
	}
	return p.resolve(ctx, ref)
}

func (p *fakeProvider) OnValidationFailure(entryType string, err error, legacySourced bool) Decision {
	if p.onValidation == nil {
		return DecisionDegrade
	}
	return p.onValidation(entryType, err, legacySourced)
}

func (p *fakeProvider) OnMissingReference(entryType string, ref Reference) Decision {
	if p.onMissing == nil {
		return DecisionDegrade
	}
	return p.onMissing(entryType, ref)
}

// staticBridge serves fixed entries keyed by "entryType/id".
func staticBridge(entries map[string]string) BridgeFunc {
	return func(_ context.Context, entryType, id string) (json.RawMessage, error) {
		raw, ok := entries[entryType+"/"+id]
		if !ok {
			return nil, nil
		}
		return json.RawMessage(raw), nil
	}
}

// captureEmitter records every signal it receives.
type captureEmitter struct {
	signals []Signal
}

func (e *captureEmitter) Emit(sig Signal) {
	e.signals = append(e.signals, sig)
}
