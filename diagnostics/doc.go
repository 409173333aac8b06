// Package diagnostics carries model-change notifications to a structured
// logger. Payload types are read-only data carriers: the model core
// constructs them and hands them off, it never interprets them. The default
// logger is a no-op; hosts inject their own zap logger to observe model
// building.
package diagnostics
