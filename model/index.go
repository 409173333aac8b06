package model

// Index is a lookup-acceleration hint over an ordered sequence of
// properties. Like keys, indexes hold non-owning property references.
type Index struct {
	declaring  *EntityType
	properties []*Property
	source     Source

	unique attr[bool]
}

// DeclaringEntityType returns the entity type that declares the index.
func (i *Index) DeclaringEntityType() *EntityType {
	return i.declaring
}

// Properties returns the indexed properties in declaration order.
func (i *Index) Properties() []*Property {
	return i.properties
}

// GetSource returns the configuration source that created the index.
func (i *Index) GetSource() Source {
	return i.source
}

// IsUnique reports whether the index enforces uniqueness.
func (i *Index) IsUnique() bool {
	return i.unique.ValueOr(false)
}

// UniqueSource returns the source that configured uniqueness.
func (i *Index) UniqueSource() Source {
	return i.unique.Source()
}
