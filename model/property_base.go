package model

// AccessMode selects how values are read from and written to the backing
// shape of a property or navigation.
type AccessMode uint8

const (
	// AccessModeDefault lets the materializer choose: the backing field
	// when one is configured, the property accessor otherwise.
	AccessModeDefault AccessMode = iota

	// AccessModeField always goes through the backing field.
	AccessModeField

	// AccessModeProperty always goes through the property accessor.
	AccessModeProperty
)

// String returns the access mode name.
func (m AccessMode) String() string {
	switch m {
	case AccessModeField:
		return "Field"
	case AccessModeProperty:
		return "Property"
	default:
		return "Default"
	}
}

// propertyBase carries the state shared by properties, navigations and skip
// navigations: identity, the declaring entity type, the backing-field
// mapping and the access mode.
type propertyBase struct {
	annotatable

	name      string
	declaring *EntityType
	source    Source

	field  attr[string]
	access attr[AccessMode]
}

// Name returns the member name, unique among the declaring type's members.
func (p *propertyBase) Name() string {
	return p.name
}

// DeclaringEntityType returns the entity type that declares this member.
// Members are owned by exactly one declaring type for their whole life.
func (p *propertyBase) DeclaringEntityType() *EntityType {
	return p.declaring
}

// GetSource returns the configuration source that created the member.
func (p *propertyBase) GetSource() Source {
	return p.source
}

func (p *propertyBase) updateSource(src Source) {
	p.source = p.source.Max(src)
}

// FieldName returns the configured backing-field name, empty when unset.
func (p *propertyBase) FieldName() string {
	return p.field.ValueOr("")
}

// FieldNameSource returns the source that configured the backing field.
func (p *propertyBase) FieldNameSource() Source {
	return p.field.Source()
}

// GetAccessMode returns the configured access mode, AccessModeDefault when
// unset.
func (p *propertyBase) GetAccessMode() AccessMode {
	return p.access.ValueOr(AccessModeDefault)
}

// AccessModeSource returns the source that configured the access mode.
func (p *propertyBase) AccessModeSource() Source {
	return p.access.Source()
}
