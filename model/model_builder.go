package model

import (
	"reflect"

	"github.com/tessera-orm/tessera"
)

// ModelBuilder is the mutation surface over a Model. Like every builder,
// its operations evaluate the configuration-source precedence gate before
// mutating: a nil result with a nil error means the write lost to
// higher-precedence configuration.
type ModelBuilder struct {
	model *Model
}

// Metadata returns the model the builder wraps.
func (b *ModelBuilder) Metadata() *Model {
	return b.model
}

// Entity returns a builder for the entity type with the given name,
// creating it at src when absent.
func (b *ModelBuilder) Entity(name string, src Source) (*EntityTypeBuilder, error) {
	return b.entity(name, nil, false, src)
}

// EntityWithShape is Entity with a backing type descriptor. Conflicting
// shapes on an existing type are a configuration error for explicit
// callers and a silent rejection otherwise.
func (b *ModelBuilder) EntityWithShape(name string, shape reflect.Type, src Source) (*EntityTypeBuilder, error) {
	return b.entity(name, shape, false, src)
}

// ImplicitEntity is Entity for generated types that exist only to support
// other metadata, e.g. the association entity type of a many-to-many
// relationship. Implicit types are garbage-collected when their last
// foreign key is removed.
func (b *ModelBuilder) ImplicitEntity(name string, src Source) (*EntityTypeBuilder, error) {
	return b.entity(name, nil, true, src)
}

func (b *ModelBuilder) entity(name string, shape reflect.Type, implicit bool, src Source) (*EntityTypeBuilder, error) {
	m := b.model
	if name == "" {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError("", "", "entity type name cannot be empty")
		}
		return nil, nil
	}
	if done, err := m.sealed(src); done {
		return nil, err
	}
	if existing := m.FindEntityType(name); existing != nil {
		if shape != nil && existing.shape != nil && existing.shape != shape {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(name, "",
					"entity type is already mapped to shape "+existing.shape.String())
			}
			return nil, nil
		}
		if shape != nil && existing.shape == nil && src.Overrides(existing.source) {
			existing.shape = shape
		}
		existing.updateSource(src)
		return existing.builder, nil
	}
	et := newEntityType(m, name, shape, src)
	et.implicit = implicit
	batch := m.dispatcher.StartBatch()
	defer batch.Close()
	m.addEntityType(et)
	m.dispatcher.onEntityTypeAdded(et.builder)
	return et.builder, nil
}

// CanRemoveEntityType probes whether RemoveEntityType would succeed at src.
func (b *ModelBuilder) CanRemoveEntityType(et *EntityType, src Source) bool {
	if !src.Overrides(et.source) {
		return false
	}
	for _, other := range b.model.EntityTypes() {
		if other == et {
			continue
		}
		for _, fk := range other.ForeignKeys() {
			if fk.principalTypeName == et.name && !src.Overrides(fk.source) {
				return false
			}
		}
		for _, nav := range other.SkipNavigations() {
			if nav.targetName == et.name && !src.Overrides(nav.source) {
				return false
			}
		}
	}
	return true
}

// RemoveEntityType removes the entity type and everything depending on it:
// foreign keys on other types that reference it as principal, foreign keys
// the type itself declares, skip navigations targeting it, and inverse
// references left on other types. Referential integrity is maintained
// eagerly; the cascade runs before the removal event is raised.
func (b *ModelBuilder) RemoveEntityType(et *EntityType, src Source) (*ModelBuilder, error) {
	if et == nil || !et.InModel() {
		return b, nil
	}
	if done, err := b.model.sealed(src); done {
		return nil, err
	}
	if !b.CanRemoveEntityType(et, src) {
		return nil, nil
	}
	m := b.model
	batch := m.dispatcher.StartBatch()
	defer batch.Close()

	// Detach from the model first so cascading removals below never try to
	// garbage-collect this type re-entrantly.
	m.removeEntityType(et)

	for _, other := range m.EntityTypes() {
		for _, fk := range other.ForeignKeys() {
			if fk.principalTypeName == et.name {
				if _, err := other.builder.RemoveForeignKey(fk, src); err != nil {
					return nil, err
				}
			}
		}
		for _, nav := range other.SkipNavigations() {
			if nav.targetName == et.name {
				if _, err := other.builder.RemoveSkipNavigation(nav, src); err != nil {
					return nil, err
				}
			}
		}
		for _, nav := range other.Navigations() {
			if nav.targetName == et.name {
				other.removeNavigation(nav)
			}
		}
		if other.baseTypeName == et.name {
			other.baseTypeName = ""
			other.baseSource = SourceNone
		}
	}

	// Clear bindings held by the removed type's own skip navigations so
	// their association types can be collected.
	for _, nav := range et.SkipNavigations() {
		if nav.foreignKey != nil {
			host := nav.foreignKey.declaring
			if _, err := host.builder.RemoveForeignKey(nav.foreignKey, src); err != nil {
				return nil, err
			}
		}
	}

	// The removed type's own declared foreign keys go with it; removing
	// them unbinds skip navigations on other types that traverse them.
	for _, fk := range et.ForeignKeys() {
		if _, err := et.builder.RemoveForeignKey(fk, src.Max(fk.source)); err != nil {
			return nil, err
		}
	}

	m.dispatcher.onEntityTypeRemoved(b, et)
	return b, nil
}
