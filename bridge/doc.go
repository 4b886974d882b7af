// Package bridge provides transports to a legacy schema version's read
// path. Each transport produces a heal.BridgeFunc: fetch one entry by type
// and id, (nil, nil) when the legacy side has no entry.
package bridge
