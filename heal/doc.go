// Package heal implements the Mend schema healing engine.
//
// A replicated append-only store evolves its entry schemas over time without
// every participant upgrading at once. Old-format and new-format entries
// coexist; reads that miss the current-schema store call into this engine to
// reconcile, on demand, one entry at a time.
//
// ARCHITECTURE:
//
// Four single-responsibility contracts per entry type:
//   - Validator: is this entry valid under the current schema?
//   - Transformer: map a legacy entry to the current schema
//   - ReferenceResolver: does a referenced entry exist?
//   - DegradationHandler: accept, degrade, or fail when something is wrong
//
// A Provider bundles the four contracts for one entry type. Providers are
// registered into a Registry during process initialization; after that the
// Registry is read-only and safe for unsynchronized concurrent lookup.
//
// A Strategy decides in which order the two sources are tried: the legacy
// bridge (a timeout-bounded call to the previous schema version's read path)
// and local repair (re-validating whatever the caller found in the
// current-schema store). Four strategies ship: BridgeFirst, SelfRepairFirst,
// LocalRepairOnly, NoHealing.
//
// The Orchestrator is the facade. It resolves the Provider, assembles a
// per-call Context, delegates to the Strategy, walks reference fields,
// applies the degradation policy, emits an observability signal, and returns
// an Outcome.
//
// The engine never writes anything back to storage. Healing a read does not
// mutate persisted state; callers decide whether to persist the healed entry.
package heal
