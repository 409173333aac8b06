package model

import (
	"reflect"
	"slices"
)

// EntityType is a node in the conceptual model: a named type with
// properties, navigations, keys, foreign keys and indexes. It is created,
// mutated and removed only through builders; direct mutation lives in
// unexported helpers the builders call after the precedence gate has
// passed.
type EntityType struct {
	annotatable

	model *Model
	name  string
	// shape is the optional backing type descriptor of the entity.
	shape  reflect.Type
	source Source

	// implicit marks a generated type that exists only to support other
	// metadata; it is collected when its last foreign key goes away.
	implicit bool

	// baseTypeName is a non-owning handle into the model's entity-type
	// mapping; ownership of the base type remains with the model.
	baseTypeName string
	baseSource   Source

	properties    map[string]*Property
	propertyNames []string

	navigations     map[string]*Navigation
	navigationNames []string

	skipNavigations     map[string]*SkipNavigation
	skipNavigationNames []string

	keys       map[string]*Key
	keyNames   []string
	primaryKey *Key
	pkSource   Source

	foreignKeys []*ForeignKey

	indexes    map[string]*Index
	indexNames []string

	builder *EntityTypeBuilder
}

func newEntityType(m *Model, name string, shape reflect.Type, src Source) *EntityType {
	et := &EntityType{
		model:           m,
		name:            name,
		shape:           shape,
		source:          src,
		properties:      make(map[string]*Property),
		navigations:     make(map[string]*Navigation),
		skipNavigations: make(map[string]*SkipNavigation),
		keys:            make(map[string]*Key),
		indexes:         make(map[string]*Index),
	}
	et.builder = &EntityTypeBuilder{entityType: et, modelBuilder: m.builder}
	return et
}

// Name returns the entity-type name, unique within the model.
func (et *EntityType) Name() string {
	return et.name
}

// Model returns the owning model.
func (et *EntityType) Model() *Model {
	return et.model
}

// Shape returns the optional backing type descriptor.
func (et *EntityType) Shape() reflect.Type {
	return et.shape
}

// GetSource returns the configuration source that created the entity type.
func (et *EntityType) GetSource() Source {
	return et.source
}

func (et *EntityType) updateSource(src Source) {
	et.source = et.source.Max(src)
}

// Builder returns the builder wrapping this entity type.
func (et *EntityType) Builder() *EntityTypeBuilder {
	return et.builder
}

// IsImplicit reports whether the entity type was generated to support
// other metadata rather than configured directly.
func (et *EntityType) IsImplicit() bool {
	return et.implicit
}

// InModel reports whether the entity type is still part of its model.
func (et *EntityType) InModel() bool {
	return et.model.FindEntityType(et.name) == et
}

// BaseType resolves the base entity type, nil when none is configured or
// the base has been removed from the model.
func (et *EntityType) BaseType() *EntityType {
	if et.baseTypeName == "" {
		return nil
	}
	return et.model.FindEntityType(et.baseTypeName)
}

// BaseTypeSource returns the source that configured the base type.
func (et *EntityType) BaseTypeSource() Source {
	if et.baseTypeName == "" {
		return SourceNone
	}
	return et.baseSource
}

// Properties returns the declared properties in insertion order.
func (et *EntityType) Properties() []*Property {
	out := make([]*Property, 0, len(et.propertyNames))
	for _, name := range et.propertyNames {
		out = append(out, et.properties[name])
	}
	return out
}

// FindDeclaredProperty returns the property declared directly on this type.
func (et *EntityType) FindDeclaredProperty(name string) *Property {
	return et.properties[name]
}

// FindProperty returns the property declared on this type or inherited
// from its base chain.
func (et *EntityType) FindProperty(name string) *Property {
	for t := et; t != nil; t = t.BaseType() {
		if p := t.properties[name]; p != nil {
			return p
		}
	}
	return nil
}

// Navigations returns the declared navigations in insertion order.
func (et *EntityType) Navigations() []*Navigation {
	out := make([]*Navigation, 0, len(et.navigationNames))
	for _, name := range et.navigationNames {
		out = append(out, et.navigations[name])
	}
	return out
}

// FindNavigation returns the declared navigation with the given name.
func (et *EntityType) FindNavigation(name string) *Navigation {
	return et.navigations[name]
}

// SkipNavigations returns the declared skip navigations in insertion order.
func (et *EntityType) SkipNavigations() []*SkipNavigation {
	out := make([]*SkipNavigation, 0, len(et.skipNavigationNames))
	for _, name := range et.skipNavigationNames {
		out = append(out, et.skipNavigations[name])
	}
	return out
}

// FindSkipNavigation returns the declared skip navigation with the given
// name.
func (et *EntityType) FindSkipNavigation(name string) *SkipNavigation {
	return et.skipNavigations[name]
}

// hasMember reports whether any property or navigation already claims name.
func (et *EntityType) hasMember(name string) bool {
	if et.FindProperty(name) != nil {
		return true
	}
	return et.navigations[name] != nil || et.skipNavigations[name] != nil
}

// Keys returns the declared keys in insertion order.
func (et *EntityType) Keys() []*Key {
	out := make([]*Key, 0, len(et.keyNames))
	for _, name := range et.keyNames {
		out = append(out, et.keys[name])
	}
	return out
}

// FindKey returns the declared key over exactly the given properties.
func (et *EntityType) FindKey(properties []*Property) *Key {
	return et.keys[propertyListName(properties)]
}

func (et *EntityType) findKeyByNames(names []string) *Key {
	props := make([]*Property, 0, len(names))
	for _, name := range names {
		p := et.FindProperty(name)
		if p == nil {
			return nil
		}
		props = append(props, p)
	}
	return et.FindKey(props)
}

// PrimaryKey returns the primary key, nil when none is configured.
func (et *EntityType) PrimaryKey() *Key {
	return et.primaryKey
}

// PrimaryKeySource returns the source that configured the primary key.
func (et *EntityType) PrimaryKeySource() Source {
	if et.primaryKey == nil {
		return SourceNone
	}
	return et.pkSource
}

// ForeignKeys returns the declared foreign keys in insertion order.
func (et *EntityType) ForeignKeys() []*ForeignKey {
	return slices.Clone(et.foreignKeys)
}

// FindForeignKey returns the declared foreign key over the given properties
// pointing at the given principal type name.
func (et *EntityType) FindForeignKey(properties []*Property, principalTypeName string) *ForeignKey {
	want := propertyListName(properties)
	for _, fk := range et.foreignKeys {
		if fk.principalTypeName == principalTypeName && propertyListName(fk.properties) == want {
			return fk
		}
	}
	return nil
}

// Indexes returns the declared indexes in insertion order.
func (et *EntityType) Indexes() []*Index {
	out := make([]*Index, 0, len(et.indexNames))
	for _, name := range et.indexNames {
		out = append(out, et.indexes[name])
	}
	return out
}

// FindIndex returns the declared index over exactly the given properties.
func (et *EntityType) FindIndex(properties []*Property) *Index {
	return et.indexes[propertyListName(properties)]
}

// graph maintenance; precedence checks and cascades happen in builders.

func (et *EntityType) addProperty(p *Property) {
	et.properties[p.name] = p
	et.propertyNames = append(et.propertyNames, p.name)
}

func (et *EntityType) removeProperty(p *Property) {
	delete(et.properties, p.name)
	et.propertyNames = slices.DeleteFunc(et.propertyNames, func(n string) bool { return n == p.name })
}

func (et *EntityType) addNavigation(n *Navigation) {
	et.navigations[n.name] = n
	et.navigationNames = append(et.navigationNames, n.name)
}

func (et *EntityType) removeNavigation(n *Navigation) {
	delete(et.navigations, n.name)
	et.navigationNames = slices.DeleteFunc(et.navigationNames, func(s string) bool { return s == n.name })
}

func (et *EntityType) addSkipNavigation(n *SkipNavigation) {
	et.skipNavigations[n.name] = n
	et.skipNavigationNames = append(et.skipNavigationNames, n.name)
}

func (et *EntityType) removeSkipNavigation(n *SkipNavigation) {
	delete(et.skipNavigations, n.name)
	et.skipNavigationNames = slices.DeleteFunc(et.skipNavigationNames, func(s string) bool { return s == n.name })
}

func (et *EntityType) addKey(k *Key) {
	name := propertyListName(k.properties)
	et.keys[name] = k
	et.keyNames = append(et.keyNames, name)
}

func (et *EntityType) removeKey(k *Key) {
	name := propertyListName(k.properties)
	delete(et.keys, name)
	et.keyNames = slices.DeleteFunc(et.keyNames, func(s string) bool { return s == name })
	if et.primaryKey == k {
		et.primaryKey = nil
		et.pkSource = SourceNone
	}
}

func (et *EntityType) addForeignKey(fk *ForeignKey) {
	et.foreignKeys = append(et.foreignKeys, fk)
}

func (et *EntityType) removeForeignKey(fk *ForeignKey) {
	et.foreignKeys = slices.DeleteFunc(et.foreignKeys, func(f *ForeignKey) bool { return f == fk })
}

func (et *EntityType) addIndex(i *Index) {
	name := propertyListName(i.properties)
	et.indexes[name] = i
	et.indexNames = append(et.indexNames, name)
}

func (et *EntityType) removeIndex(i *Index) {
	name := propertyListName(i.properties)
	delete(et.indexes, name)
	et.indexNames = slices.DeleteFunc(et.indexNames, func(s string) bool { return s == name })
}
