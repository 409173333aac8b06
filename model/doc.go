// Package model implements the mutable conceptual model of a
// relational-mapping framework: entity types, properties, navigations,
// skip navigations, keys, foreign keys and indexes, together with the
// internal builders that are the only sanctioned way to mutate them.
//
// # Configuration sources
//
// Every configurable attribute is stored as a (value, Source) pair. A write
// succeeds only if the incoming Source overrides the recorded one
// (Explicit > DataAnnotation > Convention > unset), so automated conventions
// can never clobber explicit user configuration. Clearing an attribute with
// a sufficiently strong source resets both the value and the recorded
// source.
//
// # Builders
//
// Builders expose a side-effect-free CanSetX probe next to every mutating
// SetX/HasX operation. Mutators return (result, error): a nil result with a
// nil error is a precedence rejection, which callers (typically
// conventions) are expected to check and branch on; a non-nil error is a
// configuration error possible only at SourceExplicit and propagates to the
// original caller.
//
// # Conventions
//
// The Dispatcher sequences convention callbacks. Builders raise change
// events through it; while a batch is open the events queue, and closing
// the outermost batch drains them in arrival order, depth-first, so later
// conventions always observe the settled state left by earlier ones.
package model
