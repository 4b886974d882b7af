// Package gen generates healing provider scaffolding from entry type
// struct definitions.
//
// The analyzer parses Go source, finds exported structs that look like
// entry types (an id field plus at least one more), and extracts a schema
// per struct: field names, JSON names, kinds, required-ness, and which
// fields reference other entries. The generator renders a provider file
// per schema set: validator, legacy transformer, reference extraction, and
// the provider wiring, ready to adjust and register.
//
// The output is a starting point, not a finished provider: vocabularies,
// cross-field rules, and referenced entry types need human review.
package gen
