// Package snapshot renders a finalized model to deterministic artifacts: a
// set of generated Go source files describing the model's structure, and a
// stable fingerprint usable as a cache key. Model building is deterministic
// for a given configuration, so equal fingerprints mean equal snapshots.
package snapshot
