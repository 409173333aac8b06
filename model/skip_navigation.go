package model

// SkipNavigation is a many-to-many endpoint: it traverses to the target
// entity type through an association entity type, skipping over it. The
// inverse reference is a name handle into the target type's members so that
// removal on either side can never leave a dangling strong reference; it is
// resolved at access time.
type SkipNavigation struct {
	propertyBase

	targetName string
	collection bool

	inverseName   string
	inverseSource Source

	// foreignKey is the key from the association entity type back to the
	// declaring type; nil until the relationship is resolved.
	foreignKey *ForeignKey
	fkSource   Source

	eagerLoaded attr[bool]
}

// TargetEntityType returns the entity type the navigation targets, nil when
// it has been removed from the model.
func (n *SkipNavigation) TargetEntityType() *EntityType {
	return n.declaring.model.FindEntityType(n.targetName)
}

// IsCollection reports whether the navigation holds many targets.
func (n *SkipNavigation) IsCollection() bool {
	return n.collection
}

// Inverse returns the skip navigation on the target type pointing back at
// the declaring type, nil when none is configured. The relation is
// symmetric: n.Inverse().Inverse() == n for a fully configured pair.
func (n *SkipNavigation) Inverse() *SkipNavigation {
	if n.inverseName == "" {
		return nil
	}
	target := n.TargetEntityType()
	if target == nil {
		return nil
	}
	return target.FindSkipNavigation(n.inverseName)
}

// InverseSource returns the source that configured the inverse.
func (n *SkipNavigation) InverseSource() Source {
	if n.inverseName == "" {
		return SourceNone
	}
	return n.inverseSource
}

// ForeignKey returns the foreign key from the association entity type to
// the declaring type, nil while the relationship is unresolved.
func (n *SkipNavigation) ForeignKey() *ForeignKey {
	return n.foreignKey
}

// ForeignKeySource returns the source that assigned the foreign key.
func (n *SkipNavigation) ForeignKeySource() Source {
	if n.foreignKey == nil {
		return SourceNone
	}
	return n.fkSource
}

// AssociationEntityType returns the entity type hosting the relationship's
// foreign keys, nil while the relationship is unresolved.
func (n *SkipNavigation) AssociationEntityType() *EntityType {
	if n.foreignKey == nil {
		return nil
	}
	return n.foreignKey.DeclaringEntityType()
}

// IsEagerLoaded reports whether the navigation should be loaded with its
// declaring entity.
func (n *SkipNavigation) IsEagerLoaded() bool {
	return n.eagerLoaded.ValueOr(false)
}

// EagerLoadedSource returns the source that configured eager loading.
func (n *SkipNavigation) EagerLoadedSource() Source {
	return n.eagerLoaded.Source()
}
