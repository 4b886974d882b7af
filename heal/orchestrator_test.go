package heal

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/mend/errors"
)

func newTestOrchestrator(t *testing.T, p *fakeProvider, opts Options) *Orchestrator {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(p))
	o, err := NewOrchestrator(registry, opts)
	require.NoError(t, err)
	return o
}

func TestNewOrchestrator(t *testing.T) {
	t.Run("rejects nil registry", func(t *testing.T) {
		_, err := NewOrchestrator(nil, Options{})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		o, err := NewOrchestrator(NewRegistry(), Options{})
		require.NoError(t, err)
		assert.Equal(t, StrategyBridgeFirst, o.Strategy().Name())
		assert.Equal(t, DefaultMaxAttempts, o.opts.MaxAttempts)
		assert.Equal(t, DefaultBridgeTimeout, o.opts.BridgeTimeout)
		assert.Equal(t, DefaultResolverTimeout, o.opts.ResolverTimeout)
	})
}

func TestOrchestratorEntryTypes(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&fakeProvider{entryType: "content"}))
	require.NoError(t, registry.Register(&fakeProvider{entryType: "learning_path"}))
	o, err := NewOrchestrator(registry, Options{})
	require.NoError(t, err)

	assert.True(t, o.SupportsEntryType("content"))
	assert.False(t, o.SupportsEntryType("ghost"))
	assert.Equal(t, []string{"content", "learning_path"}, o.EntryTypes())
}

func TestHealByIDMigration(t *testing.T) {
	p := &fakeProvider{entryType: "content"}
	emitter := &captureEmitter{}
	o := newTestOrchestrator(t, p, Options{
		Bridge:           staticBridge(map[string]string{"content/c1": `{"title":"legacy doc"}`}),
		AllowDegradation: true,
		EmitSignals:      true,
		Emitter:          emitter,
	})

	outcome, err := o.HealByID(context.Background(), "content", "c1", nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, StatusMigrated, outcome.Status)
	assert.True(t, outcome.BridgeUsed)
	assert.True(t, outcome.IsUsable())
	assert.NotEmpty(t, outcome.CallID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(outcome.Entry, &entry))
	assert.Equal(t, "legacy doc", entry["title"])
	assert.Equal(t, float64(2), entry["schema_version"])
	assert.Equal(t, "Migrated", entry["validation_status"])

	require.Len(t, emitter.signals, 1)
	sig := emitter.signals[0]
	assert.Equal(t, outcome.CallID, sig.CallID)
	assert.Equal(t, StatusMigrated, sig.Status)
	assert.True(t, sig.BridgeUsed)
	assert.Empty(t, sig.Error)

	counts := o.Report().Snapshot()["content"]
	assert.Equal(t, 1, counts.Migrated)
}

func TestHealByIDValidLocalUnchanged(t *testing.T) {
	p := &fakeProvider{entryType: "content"}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	local := json.RawMessage(`{"title":"fine","schema_version":2,"validation_status":"Valid"}`)
	outcome, err := o.HealByID(context.Background(), "content", "c1", local)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, StatusValid, outcome.Status)
	assert.False(t, outcome.BridgeUsed)
	// Healing an already-valid entry is a no-op on the bytes.
	assert.Equal(t, local, outcome.Entry)

	again, err := o.HealByID(context.Background(), "content", "c1", outcome.Entry)
	require.NoError(t, err)
	assert.Equal(t, outcome.Entry, again.Entry)
	assert.Equal(t, StatusValid, again.Status)
}

func TestHealByIDGracefulDegradation(t *testing.T) {
	p := &fakeProvider{
		entryType: "content",
		validate:  func(map[string]any) error { return errors.New("description too short") },
		onValidation: func(string, error, bool) Decision {
			return DecisionDegrade
		},
	}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	outcome, err := o.HealByID(context.Background(), "content", "c1", json.RawMessage(`{"title":"x"}`))
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, StatusDegraded, outcome.Status)
	assert.True(t, outcome.IsUsable())

	// Degradation is never silent: the entry is tagged and the notes say why.
	var entry map[string]any
	require.NoError(t, json.Unmarshal(outcome.Entry, &entry))
	assert.Equal(t, "Degraded", entry["validation_status"])
	assert.NotEmpty(t, outcome.Notes)
}

func TestHealByIDDegradedEntryRetagged(t *testing.T) {
	p := &fakeProvider{
		entryType: "content",
		validate:  func(map[string]any) error { return errors.New("description too short") },
	}
	o := newTestOrchestrator(t, p, Options{Strategy: LocalRepairOnly{}, AllowDegradation: true})

	current := json.RawMessage(`{"id":"c1","title":"x","schema_version":1}`)
	outcome, err := o.HealByID(context.Background(), "content", "c1", current)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, StatusDegraded, outcome.Status)

	// A kept-but-degraded entry carries the current schema version, not
	// the stale one it was found with.
	var entry map[string]any
	require.NoError(t, json.Unmarshal(outcome.Entry, &entry))
	assert.Equal(t, float64(2), entry["schema_version"])
	assert.Equal(t, "Degraded", entry["validation_status"])
}

func TestHealByIDValidationFailureAccepted(t *testing.T) {
	p := &fakeProvider{
		entryType: "content",
		validate:  func(map[string]any) error { return errors.New("description too short") },
		onValidation: func(string, error, bool) Decision {
			return DecisionAccept
		},
	}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	current := json.RawMessage(`{"id":"c1","title":"x"}`)
	outcome, err := o.HealByID(context.Background(), "content", "c1", current)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	// Accept serves the entry as found; the notes record what was waved
	// through.
	assert.Equal(t, StatusValid, outcome.Status)
	assert.Equal(t, current, outcome.Entry)
	require.NotEmpty(t, outcome.Notes)
	assert.Contains(t, outcome.Notes[0], "validation failure accepted")
}

func TestHealByIDValidationFailure(t *testing.T) {
	p := &fakeProvider{
		entryType: "content",
		validate:  func(map[string]any) error { return errors.New("content_type missing") },
		onValidation: func(string, error, bool) Decision {
			return DecisionFail
		},
	}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	outcome, err := o.HealByID(context.Background(), "content", "c1", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.True(t, errors.IsValidationFailed(err))
	assert.False(t, errors.IsDegradationPolicy(err))
	assert.Contains(t, err.Error(), "content_type missing")

	assert.Equal(t, 1, o.Report().Snapshot()["content"].Failed)
}

func TestHealByIDDegradationDisabled(t *testing.T) {
	p := &fakeProvider{
		entryType: "content",
		validate:  func(map[string]any) error { return errors.New("minor issue") },
	}
	// The handler asks to degrade, but the global gate is off.
	o := newTestOrchestrator(t, p, Options{AllowDegradation: false})

	_, err := o.HealByID(context.Background(), "content", "c1", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.IsValidationFailed(err))
	assert.True(t, errors.IsDegradationPolicy(err))
}

func TestHealByIDMissingReferenceGatedFails(t *testing.T) {
	p := &fakeProvider{
		entryType: "path_step",
		refs: func(map[string]any) []Reference {
			return []Reference{{EntryType: "content", ID: "gone"}}
		},
		resolve: func(context.Context, Reference) (bool, error) {
			return false, nil
		},
	}
	// The handler asks to degrade the missing reference, but the global
	// gate is off.
	o := newTestOrchestrator(t, p, Options{AllowDegradation: false})

	_, err := o.HealByID(context.Background(), "path_step", "s1", json.RawMessage(`{"id":"s1"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingReference))
	assert.True(t, errors.IsDegradationPolicy(err))
}

func TestHealByIDNoDataAnywhere(t *testing.T) {
	p := &fakeProvider{entryType: "content"}
	o := newTestOrchestrator(t, p, Options{Bridge: staticBridge(nil), AllowDegradation: true})

	outcome, err := o.HealByID(context.Background(), "content", "ghost", nil)
	require.NoError(t, err)
	assert.Nil(t, outcome)

	assert.Equal(t, 1, o.Report().Snapshot()["content"].NotFound)
}

func TestHealByIDUnknownEntryType(t *testing.T) {
	o := newTestOrchestrator(t, &fakeProvider{entryType: "content"}, Options{})

	_, err := o.HealByID(context.Background(), "hologram", "h1", nil)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownEntryType(err))
	assert.Contains(t, err.Error(), "hologram")
}

func TestHealByIDMissingReferenceDegrades(t *testing.T) {
	p := &fakeProvider{
		entryType: "path_step",
		refs: func(map[string]any) []Reference {
			return []Reference{
				{EntryType: "content", ID: "exists"},
				{EntryType: "content", ID: "gone"},
			}
		},
		resolve: func(_ context.Context, ref Reference) (bool, error) {
			return ref.ID == "exists", nil
		},
	}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	outcome, err := o.HealByID(context.Background(), "path_step", "s1", json.RawMessage(`{"title":"step"}`))
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, StatusDegraded, outcome.Status)
	assert.Equal(t, []Reference{{EntryType: "content", ID: "gone"}}, outcome.MissingRefs)
}

func TestHealByIDMissingReferenceFails(t *testing.T) {
	resolved := 0
	p := &fakeProvider{
		entryType: "path_step",
		refs: func(map[string]any) []Reference {
			return []Reference{
				{EntryType: "content", ID: "gone"},
				{EntryType: "content", ID: "also-gone"},
			}
		},
		resolve: func(context.Context, Reference) (bool, error) {
			resolved++
			return false, nil
		},
		onMissing: func(string, Reference) Decision { return DecisionFail },
	}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	_, err := o.HealByID(context.Background(), "path_step", "s1", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingReference))
	assert.Contains(t, err.Error(), "content/gone")
	// All references are checked before the failure is final.
	assert.Equal(t, 2, resolved)
}

func TestHealByIDResolverErrorIsMissing(t *testing.T) {
	p := &fakeProvider{
		entryType: "path_step",
		refs: func(map[string]any) []Reference {
			return []Reference{{EntryType: "content", ID: "c1"}}
		},
		resolve: func(context.Context, Reference) (bool, error) {
			return false, errors.New("index offline")
		},
	}
	o := newTestOrchestrator(t, p, Options{AllowDegradation: true})

	outcome, err := o.HealByID(context.Background(), "path_step", "s1", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, StatusDegraded, outcome.Status)
}

func TestHealByIDPassthrough(t *testing.T) {
	p := &fakeProvider{
		entryType: "content",
		validate:  func(map[string]any) error { return errors.New("would fail") },
	}
	raw := json.RawMessage(`{"schema_version":1,"anything":"goes"}`)
	o := newTestOrchestrator(t, p, Options{Strategy: NoHealing{}})

	outcome, err := o.HealByID(context.Background(), "content", "c1", raw)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, StatusValid, outcome.Status)
	assert.Equal(t, raw, outcome.Entry)
}

func TestHealByIDSignalGating(t *testing.T) {
	p := &fakeProvider{entryType: "content"}
	emitter := &captureEmitter{}
	o := newTestOrchestrator(t, p, Options{Emitter: emitter, EmitSignals: false})

	_, err := o.HealByID(context.Background(), "content", "c1", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Empty(t, emitter.signals)
}

type panicEmitter struct{}

func (panicEmitter) Emit(Signal) { panic("emitter bug") }

func TestHealByIDEmitterPanicRecovered(t *testing.T) {
	p := &fakeProvider{entryType: "content"}
	o := newTestOrchestrator(t, p, Options{Emitter: panicEmitter{}, EmitSignals: true})

	outcome, err := o.HealByID(context.Background(), "content", "c1", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, outcome)
}

func TestHealByIDContextCanceled(t *testing.T) {
	p := &fakeProvider{entryType: "content"}
	o := newTestOrchestrator(t, p, Options{
		Bridge: BridgeFunc(func(ctx context.Context, _, _ string) (json.RawMessage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.HealByID(ctx, "content", "c1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestReportTotals(t *testing.T) {
	r := NewReport()
	r.record("content", StatusValid)
	r.record("content", StatusMigrated)
	r.record("path_step", StatusDegraded)
	r.record("path_step", StatusFailed)
	r.recordNotFound("content")

	totals := r.Totals()
	assert.Equal(t, 1, totals.Valid)
	assert.Equal(t, 1, totals.Migrated)
	assert.Equal(t, 1, totals.Degraded)
	assert.Equal(t, 1, totals.Failed)
	assert.Equal(t, 1, totals.NotFound)
	assert.Equal(t, 5, totals.Total())
}
