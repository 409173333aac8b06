package model

// KeyBuilder is the mutation surface over one key. Keys carry little
// configurable state of their own; the builder mostly exists so convention
// callbacks receive a uniform builder shape.
type KeyBuilder struct {
	key          *Key
	modelBuilder *ModelBuilder
}

// Metadata returns the key the builder wraps.
func (b *KeyBuilder) Metadata() *Key {
	return b.key
}

// EntityTypeBuilder returns the builder of the declaring entity type.
func (b *KeyBuilder) EntityTypeBuilder() *EntityTypeBuilder {
	return b.key.declaring.Builder()
}
