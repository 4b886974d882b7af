// Package providers ships the healing providers for the built-in entry
// types of a Lamad-style content store: content, learning_path, path_step,
// and content_mastery.
//
// Each provider bundles a current-schema validator, a legacy transformer,
// a store-backed reference resolver, and a configurable degradation policy.
// RegisterAll wires all four into a heal.Registry.
//
// The package also serves as the template for third-party providers: a new
// entry type implements heal.Provider the same way and registers alongside
// these.
package providers
