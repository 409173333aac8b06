package tessera

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for model configuration.
var (
	// ErrConfiguration is returned when an explicit caller configures the
	// model in a way that cannot be honored, e.g. making a property backed
	// by a non-nullable shape optional. Conventions never produce it: a
	// convention that cannot apply simply reports a nil result.
	ErrConfiguration = errors.New("tessera: invalid configuration")

	// ErrStructural is returned when a multi-step operation discovers the
	// graph cannot support it, e.g. deriving a foreign key to a principal
	// entity type that has no primary key.
	ErrStructural = errors.New("tessera: structural inconsistency")

	// ErrModelFinalized is returned when a builder mutates a model after
	// Finalize has run.
	ErrModelFinalized = errors.New("tessera: model already finalized")
)

// ConfigurationError represents an invalid explicit configuration. It is
// raised only for maximum-precedence callers; lower-precedence rejections
// are reported as nil results, never as errors.
type ConfigurationError struct {
	Entity  string // entity type name, if known
	Member  string // property/navigation/key member, if applicable
	Message string
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("tessera: invalid configuration")
	if e.Entity != "" {
		b.WriteString(" on ")
		b.WriteString(e.Entity)
	}
	if e.Member != "" {
		b.WriteString(".")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the configuration sentinel.
// This allows errors.Is(err, ErrConfiguration) to return true.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError returns a new ConfigurationError.
func NewConfigurationError(entity, member, message string) *ConfigurationError {
	return &ConfigurationError{Entity: entity, Member: member, Message: message}
}

// IsConfiguration returns true if the error is a ConfigurationError.
func IsConfiguration(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e) || errors.Is(err, ErrConfiguration)
}

// StructuralError represents a graph inconsistency discovered mid-operation.
// Builders translate it into rollback; it never surfaces from a convention.
type StructuralError struct {
	Entity  string
	Message string
}

// Error returns the error string.
func (e *StructuralError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("tessera: structural inconsistency on %s: %s", e.Entity, e.Message)
	}
	return fmt.Sprintf("tessera: structural inconsistency: %s", e.Message)
}

// Is reports whether the target matches the structural sentinel.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// NewStructuralError returns a new StructuralError.
func NewStructuralError(entity, message string) *StructuralError {
	return &StructuralError{Entity: entity, Message: message}
}

// IsStructural returns true if the error is a StructuralError.
func IsStructural(err error) bool {
	if err == nil {
		return false
	}
	var e *StructuralError
	return errors.As(err, &e) || errors.Is(err, ErrStructural)
}
