package model

// Convention callbacks. A convention implements one interface per event
// kind it reacts to; a single convention type commonly implements several.
// Callbacks receive the live builder, not a snapshot: the graph may have
// changed since the event was raised, and conventions are expected to
// inspect current state before acting. A convention that cannot apply must
// return silently; hard errors are reserved for explicit user misuse.
type (
	// EntityTypeAddedConvention reacts to a new entity type in the model.
	EntityTypeAddedConvention interface {
		ProcessEntityTypeAdded(b *EntityTypeBuilder, ctx *Context)
	}

	// EntityTypeRemovedConvention reacts to an entity type leaving the
	// model. The removed type is detached; it is passed for inspection
	// only.
	EntityTypeRemovedConvention interface {
		ProcessEntityTypeRemoved(b *ModelBuilder, removed *EntityType, ctx *Context)
	}

	// BaseTypeChangedConvention reacts to an entity type's base changing.
	BaseTypeChangedConvention interface {
		ProcessBaseTypeChanged(b *EntityTypeBuilder, newBase, oldBase *EntityType, ctx *Context)
	}

	// PropertyAddedConvention reacts to a new property.
	PropertyAddedConvention interface {
		ProcessPropertyAdded(b *PropertyBuilder, ctx *Context)
	}

	// PropertyNullableChangedConvention reacts to a nullability change.
	PropertyNullableChangedConvention interface {
		ProcessPropertyNullableChanged(b *PropertyBuilder, ctx *Context)
	}

	// KeyAddedConvention reacts to a new key.
	KeyAddedConvention interface {
		ProcessKeyAdded(b *KeyBuilder, ctx *Context)
	}

	// KeyRemovedConvention reacts to a key being removed.
	KeyRemovedConvention interface {
		ProcessKeyRemoved(b *EntityTypeBuilder, key *Key, ctx *Context)
	}

	// PrimaryKeyChangedConvention reacts to the primary key changing.
	PrimaryKeyChangedConvention interface {
		ProcessPrimaryKeyChanged(b *EntityTypeBuilder, newKey, oldKey *Key, ctx *Context)
	}

	// ForeignKeyAddedConvention reacts to a new foreign key.
	ForeignKeyAddedConvention interface {
		ProcessForeignKeyAdded(b *ForeignKeyBuilder, ctx *Context)
	}

	// ForeignKeyRemovedConvention reacts to a foreign key being removed.
	ForeignKeyRemovedConvention interface {
		ProcessForeignKeyRemoved(b *EntityTypeBuilder, foreignKey *ForeignKey, ctx *Context)
	}

	// NavigationAddedConvention reacts to a new navigation.
	NavigationAddedConvention interface {
		ProcessNavigationAdded(b *NavigationBuilder, ctx *Context)
	}

	// SkipNavigationAddedConvention reacts to a new skip navigation.
	SkipNavigationAddedConvention interface {
		ProcessSkipNavigationAdded(b *SkipNavigationBuilder, ctx *Context)
	}

	// SkipNavigationRemovedConvention reacts to a skip navigation being
	// removed.
	SkipNavigationRemovedConvention interface {
		ProcessSkipNavigationRemoved(b *EntityTypeBuilder, navigation *SkipNavigation, ctx *Context)
	}

	// SkipNavigationInverseChangedConvention reacts to the inverse of a
	// skip navigation changing.
	SkipNavigationInverseChangedConvention interface {
		ProcessSkipNavigationInverseChanged(b *SkipNavigationBuilder, inverse *SkipNavigation, ctx *Context)
	}

	// SkipNavigationForeignKeyChangedConvention reacts to a skip
	// navigation being bound to (or unbound from) a foreign key.
	SkipNavigationForeignKeyChangedConvention interface {
		ProcessSkipNavigationForeignKeyChanged(b *SkipNavigationBuilder, foreignKey, oldForeignKey *ForeignKey, ctx *Context)
	}

	// IndexAddedConvention reacts to a new index.
	IndexAddedConvention interface {
		ProcessIndexAdded(b *IndexBuilder, ctx *Context)
	}

	// IndexRemovedConvention reacts to an index being removed.
	IndexRemovedConvention interface {
		ProcessIndexRemoved(b *EntityTypeBuilder, index *Index, ctx *Context)
	}

	// ModelFinalizingConvention runs once when the model finalizes.
	ModelFinalizingConvention interface {
		ProcessModelFinalizing(b *ModelBuilder, ctx *Context)
	}
)

// ConventionSet holds the conventions a dispatcher runs, one ordered slice
// per event kind. Registration order is invocation order.
type ConventionSet struct {
	EntityTypeAdded                 []EntityTypeAddedConvention
	EntityTypeRemoved               []EntityTypeRemovedConvention
	BaseTypeChanged                 []BaseTypeChangedConvention
	PropertyAdded                   []PropertyAddedConvention
	PropertyNullableChanged         []PropertyNullableChangedConvention
	KeyAdded                        []KeyAddedConvention
	KeyRemoved                      []KeyRemovedConvention
	PrimaryKeyChanged               []PrimaryKeyChangedConvention
	ForeignKeyAdded                 []ForeignKeyAddedConvention
	ForeignKeyRemoved               []ForeignKeyRemovedConvention
	NavigationAdded                 []NavigationAddedConvention
	SkipNavigationAdded             []SkipNavigationAddedConvention
	SkipNavigationRemoved           []SkipNavigationRemovedConvention
	SkipNavigationInverseChanged    []SkipNavigationInverseChangedConvention
	SkipNavigationForeignKeyChanged []SkipNavigationForeignKeyChangedConvention
	IndexAdded                      []IndexAddedConvention
	IndexRemoved                    []IndexRemovedConvention
	ModelFinalizing                 []ModelFinalizingConvention
}

// NewConventionSet returns an empty convention set.
func NewConventionSet() *ConventionSet {
	return &ConventionSet{}
}

// Add registers each convention under every event kind it implements, in
// argument order.
func (s *ConventionSet) Add(conventions ...any) *ConventionSet {
	for _, conv := range conventions {
		if c, ok := conv.(EntityTypeAddedConvention); ok {
			s.EntityTypeAdded = append(s.EntityTypeAdded, c)
		}
		if c, ok := conv.(EntityTypeRemovedConvention); ok {
			s.EntityTypeRemoved = append(s.EntityTypeRemoved, c)
		}
		if c, ok := conv.(BaseTypeChangedConvention); ok {
			s.BaseTypeChanged = append(s.BaseTypeChanged, c)
		}
		if c, ok := conv.(PropertyAddedConvention); ok {
			s.PropertyAdded = append(s.PropertyAdded, c)
		}
		if c, ok := conv.(PropertyNullableChangedConvention); ok {
			s.PropertyNullableChanged = append(s.PropertyNullableChanged, c)
		}
		if c, ok := conv.(KeyAddedConvention); ok {
			s.KeyAdded = append(s.KeyAdded, c)
		}
		if c, ok := conv.(KeyRemovedConvention); ok {
			s.KeyRemoved = append(s.KeyRemoved, c)
		}
		if c, ok := conv.(PrimaryKeyChangedConvention); ok {
			s.PrimaryKeyChanged = append(s.PrimaryKeyChanged, c)
		}
		if c, ok := conv.(ForeignKeyAddedConvention); ok {
			s.ForeignKeyAdded = append(s.ForeignKeyAdded, c)
		}
		if c, ok := conv.(ForeignKeyRemovedConvention); ok {
			s.ForeignKeyRemoved = append(s.ForeignKeyRemoved, c)
		}
		if c, ok := conv.(NavigationAddedConvention); ok {
			s.NavigationAdded = append(s.NavigationAdded, c)
		}
		if c, ok := conv.(SkipNavigationAddedConvention); ok {
			s.SkipNavigationAdded = append(s.SkipNavigationAdded, c)
		}
		if c, ok := conv.(SkipNavigationRemovedConvention); ok {
			s.SkipNavigationRemoved = append(s.SkipNavigationRemoved, c)
		}
		if c, ok := conv.(SkipNavigationInverseChangedConvention); ok {
			s.SkipNavigationInverseChanged = append(s.SkipNavigationInverseChanged, c)
		}
		if c, ok := conv.(SkipNavigationForeignKeyChangedConvention); ok {
			s.SkipNavigationForeignKeyChanged = append(s.SkipNavigationForeignKeyChanged, c)
		}
		if c, ok := conv.(IndexAddedConvention); ok {
			s.IndexAdded = append(s.IndexAdded, c)
		}
		if c, ok := conv.(IndexRemovedConvention); ok {
			s.IndexRemoved = append(s.IndexRemoved, c)
		}
		if c, ok := conv.(ModelFinalizingConvention); ok {
			s.ModelFinalizing = append(s.ModelFinalizing, c)
		}
	}
	return s
}
