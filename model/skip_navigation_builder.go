package model

import "github.com/tessera-orm/tessera"

// SkipNavigationBuilder is the mutation surface over one skip navigation.
type SkipNavigationBuilder struct {
	navigation   *SkipNavigation
	modelBuilder *ModelBuilder
}

// Metadata returns the skip navigation the builder wraps.
func (b *SkipNavigationBuilder) Metadata() *SkipNavigation {
	return b.navigation
}

// Builder returns the builder wrapping this skip navigation.
func (n *SkipNavigation) Builder() *SkipNavigationBuilder {
	return &SkipNavigationBuilder{navigation: n, modelBuilder: n.declaring.model.builder}
}

// CanSetInverse probes whether HasInverse would succeed at src.
func (b *SkipNavigationBuilder) CanSetInverse(inverse *SkipNavigation, src Source) bool {
	nav := b.navigation
	if !src.Overrides(nav.InverseSource()) {
		return false
	}
	if inverse == nil {
		return true
	}
	if inverse.declaring.Name() != nav.targetName || inverse.targetName != nav.declaring.Name() {
		return false
	}
	// The relation is symmetric, so the other side's gate applies too.
	return src.Overrides(inverse.InverseSource()) || inverse.inverseName == nav.name
}

// HasInverse pairs the navigation with its counterpart on the target type.
// Both sides are updated in one logical operation so the relation stays
// symmetric; a nil inverse clears both ends.
func (b *SkipNavigationBuilder) HasInverse(inverse *SkipNavigation, src Source) (*SkipNavigationBuilder, error) {
	nav := b.navigation
	if inverse != nil && (inverse.declaring.Name() != nav.targetName || inverse.targetName != nav.declaring.Name()) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(nav.declaring.name, nav.name,
				"inverse must be declared on the target type and point back")
		}
		return nil, nil
	}
	if !b.CanSetInverse(inverse, src) {
		return nil, nil
	}

	batch := nav.declaring.model.dispatcher.StartBatch()
	defer batch.Close()

	old := nav.inverseName
	if inverse == nil {
		if prior := nav.Inverse(); prior != nil && prior.inverseName == nav.name {
			priorOld := prior.inverseName
			prior.inverseName = ""
			prior.inverseSource = SourceNone
			nav.declaring.model.dispatcher.onSkipNavigationInverseChanged(prior.Builder(), priorOld)
		}
		nav.inverseName = ""
		nav.inverseSource = SourceNone
	} else {
		nav.inverseName = inverse.name
		nav.inverseSource = src.Max(nav.inverseSource)
		if inverse.inverseName != nav.name {
			invOld := inverse.inverseName
			inverse.inverseName = nav.name
			inverse.inverseSource = src
			nav.declaring.model.dispatcher.onSkipNavigationInverseChanged(inverse.Builder(), invOld)
		}
	}
	if old != nav.inverseName {
		nav.declaring.model.dispatcher.onSkipNavigationInverseChanged(b, old)
	}
	return b, nil
}

// CanSetForeignKey probes whether HasForeignKey would succeed at src.
func (b *SkipNavigationBuilder) CanSetForeignKey(fk *ForeignKey, src Source) bool {
	nav := b.navigation
	if !src.Overrides(nav.ForeignKeySource()) {
		return false
	}
	if fk == nil {
		return true
	}
	return fk.principalTypeName == nav.declaring.Name()
}

// HasForeignKey binds the navigation to the foreign key leading from the
// association entity type back to the declaring type; nil unbinds.
func (b *SkipNavigationBuilder) HasForeignKey(fk *ForeignKey, src Source) (*SkipNavigationBuilder, error) {
	nav := b.navigation
	if fk != nil && fk.principalTypeName != nav.declaring.Name() {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(nav.declaring.name, nav.name,
				"foreign key must reference the declaring type as principal")
		}
		return nil, nil
	}
	if !src.Overrides(nav.ForeignKeySource()) {
		return nil, nil
	}
	b.setForeignKey(fk, src)
	return b, nil
}

// setForeignKey performs the bind after gating, raising the change event.
func (b *SkipNavigationBuilder) setForeignKey(fk *ForeignKey, src Source) {
	nav := b.navigation
	if nav.foreignKey == fk {
		if fk != nil {
			nav.fkSource = nav.fkSource.Max(src)
		}
		return
	}
	batch := nav.declaring.model.dispatcher.StartBatch()
	defer batch.Close()
	old := nav.foreignKey
	nav.foreignKey = fk
	if fk == nil {
		nav.fkSource = SourceNone
	} else {
		nav.fkSource = src
	}
	nav.declaring.model.dispatcher.onSkipNavigationForeignKeyChanged(b, old)
}

// CanSetEagerLoaded probes whether EagerLoaded would succeed at src.
func (b *SkipNavigationBuilder) CanSetEagerLoaded(src Source) bool {
	return b.navigation.eagerLoaded.CanSet(src)
}

// EagerLoaded configures whether the navigation loads with its declaring
// entity. A nil value clears the configuration.
func (b *SkipNavigationBuilder) EagerLoaded(v *bool, src Source) (*SkipNavigationBuilder, error) {
	if !b.navigation.eagerLoaded.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// HasField associates a backing-storage field with the navigation.
func (b *SkipNavigationBuilder) HasField(name string, src Source) (*SkipNavigationBuilder, error) {
	nav := b.navigation
	if name != "" && !navigationFieldCompatible(&nav.propertyBase, name) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(nav.declaring.name, nav.name,
				"field "+name+" is missing on the declaring shape")
		}
		return nil, nil
	}
	var v *string
	if name != "" {
		v = &name
	}
	if !nav.field.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// HasAnnotation records a source-tracked annotation on the navigation.
func (b *SkipNavigationBuilder) HasAnnotation(name string, value any, src Source) (*SkipNavigationBuilder, error) {
	if !b.navigation.SetAnnotation(name, value, src) {
		return nil, nil
	}
	return b, nil
}

// Attach re-declares the skip navigation on a different entity type,
// replaying every recorded (attribute, source) pair onto the new
// declaration.
func (b *SkipNavigationBuilder) Attach(target *EntityTypeBuilder) (*SkipNavigationBuilder, error) {
	nav := b.navigation
	tgt := nav.TargetEntityType()
	if tgt == nil {
		return nil, nil
	}
	nb, err := target.SkipNavigation(nav.name, tgt, nav.collection, nav.source)
	if nb == nil || err != nil {
		return nil, err
	}
	if nav.inverseName != "" {
		if inverse := nav.Inverse(); inverse != nil {
			if _, err := nb.HasInverse(inverse, nav.inverseSource); err != nil {
				return nil, err
			}
		}
	}
	if nav.foreignKey != nil {
		if _, err := nb.HasForeignKey(nav.foreignKey, nav.fkSource); err != nil {
			return nil, err
		}
	}
	if v, ok := nav.eagerLoaded.Get(); ok {
		nb.navigation.eagerLoaded.Set(&v, nav.eagerLoaded.Source())
	}
	if v, ok := nav.field.Get(); ok {
		nb.navigation.field.Set(&v, nav.field.Source())
	}
	for name, ann := range nav.annotations {
		nb.navigation.SetAnnotation(name, ann.value, ann.source)
	}
	return nb, nil
}
