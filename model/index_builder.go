package model

// IndexBuilder is the mutation surface over one index.
type IndexBuilder struct {
	index        *Index
	modelBuilder *ModelBuilder
}

// Metadata returns the index the builder wraps.
func (b *IndexBuilder) Metadata() *Index {
	return b.index
}

// EntityTypeBuilder returns the builder of the declaring entity type.
func (b *IndexBuilder) EntityTypeBuilder() *EntityTypeBuilder {
	return b.index.declaring.Builder()
}

// CanSetUnique probes whether IsUnique would succeed at src.
func (b *IndexBuilder) CanSetUnique(src Source) bool {
	return b.index.unique.CanSet(src)
}

// IsUnique configures the index as a uniqueness constraint. A nil value
// clears the configuration.
func (b *IndexBuilder) IsUnique(v *bool, src Source) (*IndexBuilder, error) {
	if !b.index.unique.Set(v, src) {
		return nil, nil
	}
	return b, nil
}
