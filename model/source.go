package model

// Source identifies the kind of input that configured a piece of metadata.
// Sources are totally ordered: explicit user configuration beats data
// annotations, which beat automated conventions. The zero value means the
// metadata has never been configured.
type Source uint8

const (
	// SourceNone indicates the attribute has never been set. It is
	// overridden by every source.
	SourceNone Source = iota

	// SourceConvention marks configuration applied by an automated
	// convention.
	SourceConvention

	// SourceDataAnnotation marks configuration derived from an annotation
	// on the backing shape.
	SourceDataAnnotation

	// SourceExplicit marks configuration applied explicitly by the user.
	// It is the only source that may raise configuration errors.
	SourceExplicit
)

// Overrides reports whether a write at source s is allowed to replace
// configuration recorded at other. Ties are allowed so that re-application
// by the same source succeeds.
func (s Source) Overrides(other Source) bool {
	return s >= other
}

// Max returns the higher-precedence of the two sources.
func (s Source) Max(other Source) Source {
	if other > s {
		return other
	}
	return s
}

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "None"
	case SourceConvention:
		return "Convention"
	case SourceDataAnnotation:
		return "DataAnnotation"
	case SourceExplicit:
		return "Explicit"
	default:
		return "Unknown"
	}
}
