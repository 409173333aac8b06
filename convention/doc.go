// Package convention ships the built-in model-building conventions and the
// assembly of the default convention set. Conventions are independent
// rules: each reacts to one kind of model-change event, inspects the live
// graph (never the event alone, since the graph may have moved on), and
// issues further builder mutations at SourceConvention. A convention that
// cannot complete leaves the model exactly as it found it.
package convention
