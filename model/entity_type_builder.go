package model

import (
	"reflect"

	"github.com/tessera-orm/tessera"
)

// EntityTypeBuilder is the mutation surface over one entity type. Every
// setter has a side-effect-free CanSetX probe; mutators record the winning
// configuration source and raise change events through the model's
// dispatcher. Composite operations (PrimaryKey, HasRelationship, RemoveKey)
// are atomic: when an intermediate step fails, prior steps in the same
// logical operation roll back before the failure is reported.
type EntityTypeBuilder struct {
	entityType   *EntityType
	modelBuilder *ModelBuilder
}

// Metadata returns the entity type the builder wraps.
func (b *EntityTypeBuilder) Metadata() *EntityType {
	return b.entityType
}

// ModelBuilder returns the owning model's builder.
func (b *EntityTypeBuilder) ModelBuilder() *ModelBuilder {
	return b.modelBuilder
}

// CanHaveProperty probes whether a property with the given name could be
// declared. Declaration never loses a precedence race, so the probe depends
// only on the name and the member namespace.
func (b *EntityTypeBuilder) CanHaveProperty(name string) bool {
	et := b.entityType
	if name == "" || et.model.finalized {
		return false
	}
	if existing := et.FindDeclaredProperty(name); existing != nil {
		return true
	}
	return !et.hasMember(name)
}

// Property returns a builder for the property with the given name,
// declaring it as a shadow property at src when absent.
func (b *EntityTypeBuilder) Property(name string, src Source) (*PropertyBuilder, error) {
	return b.property(name, nil, src)
}

// PropertyWithShape is Property with a backing type descriptor.
func (b *EntityTypeBuilder) PropertyWithShape(name string, shape reflect.Type, src Source) (*PropertyBuilder, error) {
	return b.property(name, shape, src)
}

func (b *EntityTypeBuilder) property(name string, shape reflect.Type, src Source) (*PropertyBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if name == "" {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, "", "property name cannot be empty")
		}
		return nil, nil
	}
	if existing := et.FindDeclaredProperty(name); existing != nil {
		if shape != nil && existing.shape != nil && existing.shape != shape {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, name,
					"property is already mapped to shape "+existing.shape.String())
			}
			return nil, nil
		}
		if shape != nil && existing.shape == nil && src.Overrides(existing.source) {
			existing.shape = shape
		}
		existing.updateSource(src)
		return existing.Builder(), nil
	}
	if et.hasMember(name) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, name, "member name is already in use")
		}
		return nil, nil
	}
	p := &Property{
		propertyBase: propertyBase{name: name, declaring: et, source: src},
		shape:        shape,
	}
	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	et.addProperty(p)
	pb := p.Builder()
	et.model.dispatcher.onPropertyAdded(pb)
	return pb, nil
}

// RemoveProperty removes a declared property not referenced by any key,
// foreign key or index.
func (b *EntityTypeBuilder) RemoveProperty(p *Property, src Source) (*EntityTypeBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if et.FindDeclaredProperty(p.Name()) != p {
		return b, nil
	}
	if !src.Overrides(p.source) || propertyInUse(p) {
		if src == SourceExplicit && propertyInUse(p) {
			return nil, tessera.NewConfigurationError(et.name, p.Name(),
				"property is referenced by a key, foreign key or index")
		}
		return nil, nil
	}
	et.removeProperty(p)
	return b, nil
}

func propertyInUse(p *Property) bool {
	et := p.declaring
	if p.IsKeyProperty() {
		return true
	}
	for _, fk := range et.foreignKeys {
		for _, fp := range fk.properties {
			if fp == p {
				return true
			}
		}
	}
	for _, idx := range et.Indexes() {
		for _, ip := range idx.properties {
			if ip == p {
				return true
			}
		}
	}
	return false
}

// CanSetBaseType probes whether HasBaseType would succeed at src.
func (b *EntityTypeBuilder) CanSetBaseType(base *EntityType, src Source) bool {
	et := b.entityType
	if !src.Overrides(et.BaseTypeSource()) {
		return false
	}
	if base == nil {
		return true
	}
	if base == et || base.model != et.model {
		return false
	}
	// No cycles through the base chain.
	for t := base; t != nil; t = t.BaseType() {
		if t == et {
			return false
		}
	}
	for _, p := range et.Properties() {
		if base.FindProperty(p.Name()) != nil {
			return false
		}
	}
	return true
}

// HasBaseType sets (or clears, with a nil base) the base entity type.
// Members configured on a replaced type are expected to be re-attached by
// conventions using Attach so their recorded sources survive.
func (b *EntityTypeBuilder) HasBaseType(base *EntityType, src Source) (*EntityTypeBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if !b.CanSetBaseType(base, src) {
		if src == SourceExplicit && base != nil {
			return nil, tessera.NewConfigurationError(et.name, "",
				"cannot set base type "+base.Name())
		}
		return nil, nil
	}
	oldBase := et.BaseType()
	if base == nil {
		if et.baseTypeName == "" {
			return b, nil
		}
		et.baseTypeName = ""
		et.baseSource = SourceNone
	} else {
		if et.baseTypeName == base.name {
			et.baseSource = et.baseSource.Max(src)
			return b, nil
		}
		et.baseTypeName = base.name
		et.baseSource = src
	}
	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	et.model.dispatcher.onBaseTypeChanged(b, oldBase)
	return b, nil
}

// HasKey returns a builder for the key over the named properties, declaring
// it at src when absent. Key properties are made non-nullable as part of
// the same logical operation; if any of them cannot be, the whole operation
// rolls back.
func (b *EntityTypeBuilder) HasKey(propertyNames []string, src Source) (*KeyBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	props, err := b.resolveProperties(propertyNames, src)
	if props == nil || err != nil {
		return nil, err
	}
	if existing := et.FindKey(props); existing != nil {
		existing.source = existing.source.Max(src)
		return &KeyBuilder{key: existing, modelBuilder: b.modelBuilder}, nil
	}

	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()

	// Key properties cannot be nullable. Apply, remembering prior cells so
	// a later failure restores them exactly.
	type saved struct {
		p    *Property
		cell attr[bool]
	}
	var changed []saved
	rollback := func() {
		for _, s := range changed {
			s.p.nullable = s.cell
		}
	}
	for _, p := range props {
		if !p.IsNullable() && p.nullable.Source() != SourceNone {
			continue
		}
		prior := p.nullable
		res, err := p.Builder().IsRequired(ptr(true), src)
		if err != nil {
			rollback()
			return nil, err
		}
		if res == nil {
			rollback()
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, p.Name(),
					"key property cannot be nullable")
			}
			return nil, nil
		}
		changed = append(changed, saved{p: p, cell: prior})
	}

	key := &Key{declaring: et, properties: props, source: src}
	et.addKey(key)
	kb := &KeyBuilder{key: key, modelBuilder: b.modelBuilder}
	et.model.dispatcher.onKeyAdded(kb)
	return kb, nil
}

// CanSetPrimaryKey probes whether PrimaryKey would succeed at src.
func (b *EntityTypeBuilder) CanSetPrimaryKey(propertyNames []string, src Source) bool {
	et := b.entityType
	if !src.Overrides(et.PrimaryKeySource()) {
		return false
	}
	for _, name := range propertyNames {
		if et.FindProperty(name) == nil {
			return false
		}
	}
	return len(propertyNames) > 0
}

// PrimaryKey declares (or reuses) the key over the named properties and
// makes it the primary key. The operation is atomic: a key created here is
// removed again if the primary-key assignment itself loses the precedence
// gate.
func (b *EntityTypeBuilder) PrimaryKey(propertyNames []string, src Source) (*KeyBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if !src.Overrides(et.PrimaryKeySource()) {
		return nil, nil
	}
	props, err := b.resolveProperties(propertyNames, src)
	if props == nil || err != nil {
		return nil, err
	}

	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()

	kb, err := b.HasKey(propertyNames, src)
	if kb == nil || err != nil {
		return nil, err
	}
	key := kb.Metadata()
	oldPK := et.primaryKey
	if oldPK == key {
		et.pkSource = et.pkSource.Max(src)
		return kb, nil
	}
	et.primaryKey = key
	et.pkSource = src
	et.model.dispatcher.onPrimaryKeyChanged(b, oldPK)
	return kb, nil
}

// RemoveKey removes a declared key. The cascade runs eagerly: foreign keys
// referencing the key are removed first (detaching any skip navigations
// bound to them), and an implicit entity type whose last foreign key goes
// away in the process is removed too.
func (b *EntityTypeBuilder) RemoveKey(key *Key, src Source) (*EntityTypeBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if et.FindKey(key.Properties()) != key {
		return b, nil
	}
	if !src.Overrides(key.source) {
		return nil, nil
	}
	refs := key.ReferencingForeignKeys()
	for _, fk := range refs {
		if !src.Overrides(fk.source) {
			return nil, nil
		}
	}

	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	for _, fk := range refs {
		if _, err := fk.declaring.builder.RemoveForeignKey(fk, src); err != nil {
			return nil, err
		}
	}
	et.removeKey(key)
	et.model.dispatcher.onKeyRemoved(b, key)
	return b, nil
}

// HasIndex returns a builder for the index over the named properties,
// declaring it at src when absent.
func (b *EntityTypeBuilder) HasIndex(propertyNames []string, src Source) (*IndexBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	props, err := b.resolveProperties(propertyNames, src)
	if props == nil || err != nil {
		return nil, err
	}
	if existing := et.FindIndex(props); existing != nil {
		existing.source = existing.source.Max(src)
		return &IndexBuilder{index: existing, modelBuilder: b.modelBuilder}, nil
	}
	idx := &Index{declaring: et, properties: props, source: src}
	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	et.addIndex(idx)
	ib := &IndexBuilder{index: idx, modelBuilder: b.modelBuilder}
	et.model.dispatcher.onIndexAdded(ib)
	return ib, nil
}

// RemoveIndex removes a declared index.
func (b *EntityTypeBuilder) RemoveIndex(idx *Index, src Source) (*EntityTypeBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if et.FindIndex(idx.Properties()) != idx {
		return b, nil
	}
	if !src.Overrides(idx.source) {
		return nil, nil
	}
	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	et.removeIndex(idx)
	et.model.dispatcher.onIndexRemoved(b, idx)
	return b, nil
}

// HasRelationship declares a foreign key from this (dependent) entity type
// to the principal's primary key. When dependentNames is empty, dependent
// properties are derived: one shadow property per principal key property,
// named after the principal type and key property, uniquified against
// existing members. The operation is atomic; properties created here are
// removed again on any later failure.
func (b *EntityTypeBuilder) HasRelationship(principal *EntityType, dependentNames []string, src Source) (*ForeignKeyBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if principal == nil || !principal.InModel() {
		return nil, nil
	}
	principalKey := principal.PrimaryKey()
	if principalKey == nil {
		if src == SourceExplicit {
			return nil, tessera.NewStructuralError(principal.Name(), "principal entity type has no primary key")
		}
		return nil, nil
	}
	if len(dependentNames) > 0 && len(dependentNames) != len(principalKey.Properties()) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, "",
				"foreign key property count must match the principal key")
		}
		return nil, nil
	}

	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()

	var created []*Property
	rollback := func() {
		for _, p := range created {
			et.removeProperty(p)
		}
	}

	props := make([]*Property, 0, len(principalKey.Properties()))
	if len(dependentNames) > 0 {
		var err error
		props, err = b.resolveProperties(dependentNames, src)
		if props == nil || err != nil {
			return nil, err
		}
	} else {
		for _, kp := range principalKey.Properties() {
			base := PropertyName(principal.Name(), kp.Name())
			name := Uniquify(base, 0, et.hasMember)
			pb, err := b.Property(name, src)
			if err != nil {
				rollback()
				return nil, err
			}
			if pb == nil {
				rollback()
				return nil, nil
			}
			created = append(created, pb.Metadata())
			props = append(props, pb.Metadata())
		}
	}

	if existing := et.FindForeignKey(props, principal.Name()); existing != nil {
		existing.source = existing.source.Max(src)
		return &ForeignKeyBuilder{foreignKey: existing, modelBuilder: b.modelBuilder}, nil
	}

	fk := &ForeignKey{
		declaring:         et,
		properties:        props,
		principalTypeName: principal.Name(),
		principalKeyProps: propertyNames(principalKey.Properties()),
		source:            src,
	}
	et.addForeignKey(fk)
	fkb := &ForeignKeyBuilder{foreignKey: fk, modelBuilder: b.modelBuilder}
	et.model.dispatcher.onForeignKeyAdded(fkb)
	return fkb, nil
}

// RemoveForeignKey removes a declared foreign key, detaching every
// navigation and skip navigation bound to it first. Removing the last
// foreign key of an implicit entity type removes the type itself, the
// garbage-collection cascade that makes failed composite operations
// side-effect free.
func (b *EntityTypeBuilder) RemoveForeignKey(fk *ForeignKey, src Source) (*EntityTypeBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	found := false
	for _, f := range et.foreignKeys {
		if f == fk {
			found = true
			break
		}
	}
	if !found {
		return b, nil
	}
	if !src.Overrides(fk.source) {
		return nil, nil
	}

	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()

	navs, skips := fk.DependentNavigations()
	for _, nav := range navs {
		nav.declaring.removeNavigation(nav)
	}
	for _, nav := range skips {
		nb := &SkipNavigationBuilder{navigation: nav, modelBuilder: b.modelBuilder}
		nb.setForeignKey(nil, src)
	}
	et.removeForeignKey(fk)
	et.model.dispatcher.onForeignKeyRemoved(b, fk)

	if et.implicit && et.InModel() && len(et.foreignKeys) == 0 {
		if _, err := b.modelBuilder.RemoveEntityType(et, src.Max(et.source)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// SkipNavigation declares a many-to-many endpoint targeting the given
// entity type.
func (b *EntityTypeBuilder) SkipNavigation(name string, target *EntityType, collection bool, src Source) (*SkipNavigationBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if name == "" || target == nil || !target.InModel() {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, name, "skip navigation needs a name and a live target")
		}
		return nil, nil
	}
	if existing := et.FindSkipNavigation(name); existing != nil {
		if existing.targetName != target.Name() || existing.collection != collection {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, name, "skip navigation already exists with a different target")
			}
			return nil, nil
		}
		existing.updateSource(src)
		return &SkipNavigationBuilder{navigation: existing, modelBuilder: b.modelBuilder}, nil
	}
	if et.hasMember(name) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, name, "member name is already in use")
		}
		return nil, nil
	}
	nav := &SkipNavigation{
		propertyBase: propertyBase{name: name, declaring: et, source: src},
		targetName:   target.Name(),
		collection:   collection,
	}
	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	et.addSkipNavigation(nav)
	nb := &SkipNavigationBuilder{navigation: nav, modelBuilder: b.modelBuilder}
	et.model.dispatcher.onSkipNavigationAdded(nb)
	return nb, nil
}

// RemoveSkipNavigation removes a declared skip navigation, clearing the
// inverse reference on the other side and collecting an implicit
// association type left without references.
func (b *EntityTypeBuilder) RemoveSkipNavigation(nav *SkipNavigation, src Source) (*EntityTypeBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if et.FindSkipNavigation(nav.Name()) != nav {
		return b, nil
	}
	if !src.Overrides(nav.source) {
		return nil, nil
	}

	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()

	if inverse := nav.Inverse(); inverse != nil && inverse.inverseName == nav.name {
		inverse.inverseName = ""
		inverse.inverseSource = SourceNone
	}
	fk := nav.foreignKey
	et.removeSkipNavigation(nav)
	et.model.dispatcher.onSkipNavigationRemoved(b, nav)

	if fk != nil {
		if _, err := fk.declaring.builder.RemoveForeignKey(fk, src.Max(fk.source)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Navigation declares a navigation traversing the given foreign key.
func (b *EntityTypeBuilder) Navigation(name string, fk *ForeignKey, onDependent, collection bool, src Source) (*NavigationBuilder, error) {
	et := b.entityType
	if done, err := et.model.sealed(src); done {
		return nil, err
	}
	if name == "" || fk == nil {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, name, "navigation needs a name and a foreign key")
		}
		return nil, nil
	}
	var target *EntityType
	if onDependent {
		if fk.DeclaringEntityType() != et {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, name, "dependent navigation must be declared on the foreign key's entity type")
			}
			return nil, nil
		}
		target = fk.PrincipalEntityType()
	} else {
		if fk.PrincipalEntityType() != et {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, name, "principal navigation must be declared on the principal entity type")
			}
			return nil, nil
		}
		target = fk.DeclaringEntityType()
	}
	if target == nil {
		return nil, nil
	}
	if existing := et.FindNavigation(name); existing != nil {
		if existing.foreignKey != fk || existing.onDependent != onDependent {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, name, "navigation already traverses a different foreign key")
			}
			return nil, nil
		}
		existing.updateSource(src)
		return &NavigationBuilder{navigation: existing, modelBuilder: b.modelBuilder}, nil
	}
	if et.hasMember(name) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, name, "member name is already in use")
		}
		return nil, nil
	}
	nav := &Navigation{
		propertyBase: propertyBase{name: name, declaring: et, source: src},
		targetName:   target.Name(),
		foreignKey:   fk,
		onDependent:  onDependent,
		collection:   collection,
	}
	batch := et.model.dispatcher.StartBatch()
	defer batch.Close()
	et.addNavigation(nav)
	nb := &NavigationBuilder{navigation: nav, modelBuilder: b.modelBuilder}
	et.model.dispatcher.onNavigationAdded(nb)
	return nb, nil
}

// HasAnnotation records a source-tracked annotation on the entity type.
func (b *EntityTypeBuilder) HasAnnotation(name string, value any, src Source) (*EntityTypeBuilder, error) {
	if !b.entityType.SetAnnotation(name, value, src) {
		return nil, nil
	}
	return b, nil
}

// resolveProperties maps names to declared-or-inherited properties. A nil
// slice means at least one name is unknown; explicit callers get a
// configuration error instead.
func (b *EntityTypeBuilder) resolveProperties(names []string, src Source) ([]*Property, error) {
	et := b.entityType
	if len(names) == 0 {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(et.name, "", "at least one property is required")
		}
		return nil, nil
	}
	props := make([]*Property, 0, len(names))
	for _, name := range names {
		p := et.FindProperty(name)
		if p == nil {
			if src == SourceExplicit {
				return nil, tessera.NewConfigurationError(et.name, name, "property not found")
			}
			return nil, nil
		}
		props = append(props, p)
	}
	return props, nil
}
