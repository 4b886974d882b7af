package heal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/logger"
)

// Orchestrator is the healing facade. It resolves providers, delegates to
// the configured strategy, applies the degradation policy, walks reference
// fields, and emits signals. Safe for concurrent use.
type Orchestrator struct {
	registry *Registry
	strategy Strategy
	opts     Options
	emitter  Emitter
	report   *Report
	log      *zap.SugaredLogger
}

// NewOrchestrator creates an orchestrator over a registry. Zero-valued
// Options fields get defaults; a nil Strategy means BridgeFirst.
func NewOrchestrator(registry *Registry, opts Options) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("nil registry")
	}
	if opts.Strategy == nil {
		opts.Strategy = BridgeFirst{}
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BridgeTimeout <= 0 {
		opts.BridgeTimeout = DefaultBridgeTimeout
	}
	if opts.ResolverTimeout <= 0 {
		opts.ResolverTimeout = DefaultResolverTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Logger
	}
	if opts.Emitter == nil {
		opts.Emitter = NewLogEmitter(opts.Logger)
	}

	return &Orchestrator{
		registry: registry,
		strategy: opts.Strategy,
		opts:     opts,
		emitter:  opts.Emitter,
		report:   NewReport(),
		log:      opts.Logger,
	}, nil
}

// Strategy returns the orchestrator's strategy.
func (o *Orchestrator) Strategy() Strategy { return o.strategy }

// Report returns the orchestrator's lifetime healing counts.
func (o *Orchestrator) Report() *Report { return o.report }

// SupportsEntryType reports whether a provider is registered for the type.
func (o *Orchestrator) SupportsEntryType(entryType string) bool {
	return o.registry.Has(entryType)
}

// EntryTypes returns all healable entry types in sorted order.
func (o *Orchestrator) EntryTypes() []string {
	return o.registry.List()
}

// HealByID heals one entry. current holds whatever the caller found in the
// current-schema store under that id, nil when nothing was found.
//
// Returns (nil, nil) when no reachable source has an entry under the id.
// Returns a non-nil Outcome when a usable entry was produced, and a non-nil
// error when the entry exists but could not be healed into a usable form.
// Healing never writes back to storage.
func (o *Orchestrator) HealByID(ctx context.Context, entryType, id string, current json.RawMessage) (*Outcome, error) {
	start := time.Now()
	callID := uuid.NewString()

	provider, ok := o.registry.Get(entryType)
	if !ok {
		err := errors.NewUnknownEntryType(entryType)
		o.finishFailed(callID, entryType, id, 0, start, err)
		return nil, err
	}

	hc := &Context{
		Validator:        provider.Validator(),
		Transformer:      provider.Transformer(),
		Resolver:         provider.ReferenceResolver(),
		Degradation:      provider.DegradationHandler(),
		SchemaVersion:    provider.SchemaVersion(),
		Bridge:           o.opts.Bridge,
		MaxAttempts:      o.opts.MaxAttempts,
		AllowDegradation: o.opts.AllowDegradation,
		BridgeTimeout:    o.opts.BridgeTimeout,
	}

	res, err := o.strategy.Heal(ctx, entryType, id, current, hc)
	if err != nil {
		o.finishFailed(callID, entryType, id, attemptsOf(res), start, err)
		return nil, err
	}
	if res == nil {
		o.report.recordNotFound(entryType)
		o.log.Debugw("no entry in any source",
			"call_id", callID, "entry_type", entryType, "entry_id", id)
		return nil, nil
	}

	if res.Passthrough {
		outcome := &Outcome{
			CallID:    callID,
			EntryType: entryType,
			EntryID:   id,
			Entry:     res.Raw,
			Status:    StatusValid,
			Elapsed:   time.Since(start),
		}
		o.finish(outcome)
		return outcome, nil
	}

	status := StatusValid
	if res.LegacySourced {
		status = StatusMigrated
	}

	if res.ValidationErr != nil {
		decision, gated := o.gate(hc.Degradation.OnValidationFailure(entryType, res.ValidationErr, res.LegacySourced))
		switch decision {
		case DecisionAccept:
			res.Notes = append(res.Notes, "validation failure accepted: "+res.ValidationErr.Error())
		case DecisionDegrade:
			status = StatusDegraded
			res.Notes = append(res.Notes, "degraded: "+res.ValidationErr.Error())
		case DecisionFail:
			err := errors.WrapValidation(res.ValidationErr, entryType)
			if gated {
				err = errors.Mark(err, errors.ErrDegradationPolicy)
			}
			o.finishFailed(callID, entryType, id, res.Attempts, start, err)
			return nil, err
		}
	}

	// Every reference is checked before the final decision, so the outcome
	// reflects the complete set of missing references.
	var missing []Reference
	var failedRef *Reference
	var failedGated bool
	for _, ref := range hc.Resolver.References(res.Data) {
		if cerr := ctx.Err(); cerr != nil {
			o.finishFailed(callID, entryType, id, res.Attempts, start, cerr)
			return nil, cerr
		}
		if o.resolve(ctx, hc, ref, callID) {
			continue
		}
		decision, gated := o.gate(hc.Degradation.OnMissingReference(entryType, ref))
		switch decision {
		case DecisionAccept:
		case DecisionDegrade:
			missing = append(missing, ref)
		case DecisionFail:
			if failedRef == nil {
				r := ref
				failedRef = &r
				failedGated = gated
			}
		}
	}
	if failedRef != nil {
		err := errors.Wrapf(errors.ErrMissingReference, "%s/%s referenced by %s/%s",
			failedRef.EntryType, failedRef.ID, entryType, id)
		if failedGated {
			err = errors.Mark(err, errors.ErrDegradationPolicy)
		}
		o.finishFailed(callID, entryType, id, res.Attempts, start, err)
		return nil, err
	}
	if len(missing) > 0 {
		status = StatusDegraded
	}

	entry, err := o.finalize(res, current, status, hc.SchemaVersion)
	if err != nil {
		o.finishFailed(callID, entryType, id, res.Attempts, start, err)
		return nil, err
	}

	outcome := &Outcome{
		CallID:      callID,
		EntryType:   entryType,
		EntryID:     id,
		Entry:       entry,
		Status:      status,
		MissingRefs: missing,
		BridgeUsed:  res.LegacySourced,
		Attempts:    res.Attempts,
		Elapsed:     time.Since(start),
		Notes:       res.Notes,
	}
	o.finish(outcome)
	return outcome, nil
}

// gate applies the global AllowDegradation switch on top of a handler's
// decision. The second return reports whether a Degrade was converted into
// a Fail by the switch.
func (o *Orchestrator) gate(d Decision) (Decision, bool) {
	if d == DecisionDegrade && !o.opts.AllowDegradation {
		return DecisionFail, true
	}
	return d, false
}

// resolve checks one reference under the resolver timeout. Resolver errors
// count as missing.
func (o *Orchestrator) resolve(ctx context.Context, hc *Context, ref Reference, callID string) bool {
	rctx, cancel := context.WithTimeout(ctx, o.opts.ResolverTimeout)
	defer cancel()
	exists, err := hc.Resolver.Resolve(rctx, ref)
	if err != nil {
		o.log.Debugw("reference resolution failed, treating as missing",
			"call_id", callID, "ref_type", ref.EntryType, "ref_id", ref.ID, "error", err)
		return false
	}
	return exists
}

// finalize produces the outcome's entry bytes. A locally-sourced entry that
// ended up Valid is returned byte-for-byte as found, which keeps healing
// idempotent; anything else is retagged with the current schema version and
// the final status.
func (o *Orchestrator) finalize(res *StrategyResult, current json.RawMessage, status ValidationStatus, schemaVersion int) (json.RawMessage, error) {
	if status == StatusValid && !res.LegacySourced && current != nil {
		return current, nil
	}
	res.Data["schema_version"] = schemaVersion
	res.Data["validation_status"] = status.String()
	entry, err := json.Marshal(res.Data)
	if err != nil {
		return nil, errors.Wrap(err, "encoding healed entry")
	}
	return entry, nil
}

func (o *Orchestrator) finish(outcome *Outcome) {
	o.report.record(outcome.EntryType, outcome.Status)
	o.emit(Signal{
		CallID:     outcome.CallID,
		EntryType:  outcome.EntryType,
		EntryID:    outcome.EntryID,
		Status:     outcome.Status,
		BridgeUsed: outcome.BridgeUsed,
		Attempts:   outcome.Attempts,
		Elapsed:    outcome.Elapsed,
	})
}

func (o *Orchestrator) finishFailed(callID, entryType, id string, attempts int, start time.Time, err error) {
	o.report.record(entryType, StatusFailed)
	o.emit(Signal{
		CallID:    callID,
		EntryType: entryType,
		EntryID:   id,
		Status:    StatusFailed,
		Attempts:  attempts,
		Elapsed:   time.Since(start),
		Error:     err.Error(),
	})
}

// emit delivers a signal when enabled. A panicking emitter never fails the
// healing call.
func (o *Orchestrator) emit(sig Signal) {
	if !o.opts.EmitSignals || o.emitter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.log.Warnw("signal emitter panicked", "call_id", sig.CallID, "panic", r)
		}
	}()
	o.emitter.Emit(sig)
}

func attemptsOf(res *StrategyResult) int {
	if res == nil {
		return 0
	}
	return res.Attempts
}
