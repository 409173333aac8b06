package convention

import "github.com/tessera-orm/tessera/model"

// ForeignKeyIndex keeps a lookup index over every foreign key's properties,
// except where a declared key already covers them: dependent-side lookups
// are the hot path of relationship traversal. Indexes it creates carry
// SourceConvention, so explicit and annotated indexes are never touched.
type ForeignKeyIndex struct{}

// Name returns the convention name used in configuration.
func (ForeignKeyIndex) Name() string { return "ForeignKeyIndex" }

// ProcessForeignKeyAdded creates the covering index unless a key or an
// existing index already serves the properties.
func (c ForeignKeyIndex) ProcessForeignKeyAdded(b *model.ForeignKeyBuilder, _ *model.Context) {
	fk := b.Metadata()
	et := fk.DeclaringEntityType()
	props := fk.Properties()
	if et.FindIndex(props) != nil || coveredByKey(et, props) {
		return
	}
	_, _ = et.Builder().HasIndex(names(props), model.SourceConvention)
}

// ProcessKeyAdded drops convention indexes the new key now covers.
func (c ForeignKeyIndex) ProcessKeyAdded(b *model.KeyBuilder, _ *model.Context) {
	key := b.Metadata()
	et := key.DeclaringEntityType()
	for _, idx := range et.Indexes() {
		if idx.GetSource() != model.SourceConvention {
			continue
		}
		if prefixOf(idx.Properties(), key.Properties()) {
			_, _ = et.Builder().RemoveIndex(idx, model.SourceConvention)
		}
	}
}

// ProcessKeyRemoved restores indexes for foreign keys the removed key was
// covering.
func (c ForeignKeyIndex) ProcessKeyRemoved(b *model.EntityTypeBuilder, _ *model.Key, _ *model.Context) {
	et := b.Metadata()
	for _, fk := range et.ForeignKeys() {
		props := fk.Properties()
		if et.FindIndex(props) != nil || coveredByKey(et, props) {
			continue
		}
		_, _ = b.HasIndex(names(props), model.SourceConvention)
	}
}

// ProcessForeignKeyRemoved drops the convention index when no other foreign
// key still uses the same properties.
func (c ForeignKeyIndex) ProcessForeignKeyRemoved(b *model.EntityTypeBuilder, fk *model.ForeignKey, _ *model.Context) {
	et := b.Metadata()
	props := fk.Properties()
	idx := et.FindIndex(props)
	if idx == nil || idx.GetSource() != model.SourceConvention {
		return
	}
	for _, other := range et.ForeignKeys() {
		if samePropertyList(other.Properties(), props) {
			return
		}
	}
	_, _ = b.RemoveIndex(idx, model.SourceConvention)
}

func coveredByKey(et *model.EntityType, props []*model.Property) bool {
	for _, key := range et.Keys() {
		if prefixOf(props, key.Properties()) {
			return true
		}
	}
	return false
}

// prefixOf reports whether sub is a leading prefix of full.
func prefixOf(sub, full []*model.Property) bool {
	if len(sub) > len(full) {
		return false
	}
	for i := range sub {
		if sub[i] != full[i] {
			return false
		}
	}
	return true
}

func samePropertyList(a, b []*model.Property) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func names(props []*model.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name()
	}
	return out
}

var (
	_ model.ForeignKeyAddedConvention   = ForeignKeyIndex{}
	_ model.KeyAddedConvention          = ForeignKeyIndex{}
	_ model.KeyRemovedConvention        = ForeignKeyIndex{}
	_ model.ForeignKeyRemovedConvention = ForeignKeyIndex{}
)
