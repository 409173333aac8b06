package model

// Navigation is a relationship member of an entity type: one end of a
// foreign key exposed for traversal.
type Navigation struct {
	propertyBase

	// targetName is a non-owning handle into the model's entity-type
	// mapping, resolved at access time.
	targetName string

	foreignKey *ForeignKey
	// onDependent is true when the navigation is declared on the
	// dependent end and points at the principal.
	onDependent bool
	collection  bool

	eagerLoaded attr[bool]
}

// TargetEntityType returns the entity type the navigation points at, nil
// when it has been removed from the model.
func (n *Navigation) TargetEntityType() *EntityType {
	return n.declaring.model.FindEntityType(n.targetName)
}

// ForeignKey returns the foreign key the navigation traverses.
func (n *Navigation) ForeignKey() *ForeignKey {
	return n.foreignKey
}

// IsOnDependent reports whether the navigation is declared on the
// dependent end of its foreign key.
func (n *Navigation) IsOnDependent() bool {
	return n.onDependent
}

// IsCollection reports whether the navigation holds many targets.
func (n *Navigation) IsCollection() bool {
	return n.collection
}

// IsEagerLoaded reports whether the navigation should be loaded with its
// declaring entity.
func (n *Navigation) IsEagerLoaded() bool {
	return n.eagerLoaded.ValueOr(false)
}

// EagerLoadedSource returns the source that configured eager loading.
func (n *Navigation) EagerLoadedSource() Source {
	return n.eagerLoaded.Source()
}
