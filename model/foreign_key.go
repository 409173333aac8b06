package model

// ForeignKey relates an ordered sequence of dependent-end properties to a
// principal entity type's key. The principal references are name handles
// resolved against the model at access time, never owning pointers, so
// removing or replacing the principal cannot leave dangling references.
type ForeignKey struct {
	declaring  *EntityType
	properties []*Property

	principalTypeName string
	principalKeyProps []string

	source Source

	isUnique   attr[bool]
	isRequired attr[bool]
}

// DeclaringEntityType returns the dependent entity type that declares the
// foreign key and owns its properties.
func (fk *ForeignKey) DeclaringEntityType() *EntityType {
	return fk.declaring
}

// Properties returns the dependent-end properties in principal key order.
func (fk *ForeignKey) Properties() []*Property {
	return fk.properties
}

// PrincipalEntityType resolves the principal end, nil when it has been
// removed from the model.
func (fk *ForeignKey) PrincipalEntityType() *EntityType {
	return fk.declaring.model.FindEntityType(fk.principalTypeName)
}

// PrincipalKey resolves the key on the principal end the foreign key
// targets, nil when either the principal type or the key is gone.
func (fk *ForeignKey) PrincipalKey() *Key {
	principal := fk.PrincipalEntityType()
	if principal == nil {
		return nil
	}
	return principal.findKeyByNames(fk.principalKeyProps)
}

// GetSource returns the configuration source that created the foreign key.
func (fk *ForeignKey) GetSource() Source {
	return fk.source
}

// IsUnique reports whether at most one dependent can reference a principal,
// i.e. the relationship is one-to-one.
func (fk *ForeignKey) IsUnique() bool {
	return fk.isUnique.ValueOr(false)
}

// UniqueSource returns the source that configured uniqueness.
func (fk *ForeignKey) UniqueSource() Source {
	return fk.isUnique.Source()
}

// IsRequired reports whether the dependent end must reference a principal.
func (fk *ForeignKey) IsRequired() bool {
	if v, ok := fk.isRequired.Get(); ok {
		return v
	}
	for _, p := range fk.properties {
		if p.IsNullable() {
			return false
		}
	}
	return true
}

// RequiredSource returns the source that configured requiredness.
func (fk *ForeignKey) RequiredSource() Source {
	return fk.isRequired.Source()
}

// DependentNavigations returns the navigations and skip navigations that
// traverse this foreign key.
func (fk *ForeignKey) DependentNavigations() (navs []*Navigation, skips []*SkipNavigation) {
	for _, et := range fk.declaring.model.EntityTypes() {
		for _, n := range et.Navigations() {
			if n.foreignKey == fk {
				navs = append(navs, n)
			}
		}
		for _, n := range et.SkipNavigations() {
			if n.foreignKey == fk {
				skips = append(skips, n)
			}
		}
	}
	return navs, skips
}
