package model

// ForeignKeyBuilder is the mutation surface over one foreign key.
type ForeignKeyBuilder struct {
	foreignKey   *ForeignKey
	modelBuilder *ModelBuilder
}

// Metadata returns the foreign key the builder wraps.
func (b *ForeignKeyBuilder) Metadata() *ForeignKey {
	return b.foreignKey
}

// EntityTypeBuilder returns the builder of the dependent entity type.
func (b *ForeignKeyBuilder) EntityTypeBuilder() *EntityTypeBuilder {
	return b.foreignKey.declaring.Builder()
}

// CanSetUnique probes whether IsUnique would succeed at src.
func (b *ForeignKeyBuilder) CanSetUnique(src Source) bool {
	return b.foreignKey.isUnique.CanSet(src)
}

// IsUnique configures the relationship as one-to-one. A nil value clears
// the configuration.
func (b *ForeignKeyBuilder) IsUnique(v *bool, src Source) (*ForeignKeyBuilder, error) {
	if !b.foreignKey.isUnique.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetRequired probes whether IsRequired would succeed at src.
func (b *ForeignKeyBuilder) CanSetRequired(src Source) bool {
	return b.foreignKey.isRequired.CanSet(src)
}

// IsRequired configures whether the dependent must reference a principal.
// A nil value clears the configuration, reverting to the nullability of
// the foreign-key properties.
func (b *ForeignKeyBuilder) IsRequired(v *bool, src Source) (*ForeignKeyBuilder, error) {
	if !b.foreignKey.isRequired.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// DependentNavigation declares a navigation on the dependent end pointing
// at the principal.
func (b *ForeignKeyBuilder) DependentNavigation(name string, src Source) (*NavigationBuilder, error) {
	fk := b.foreignKey
	return fk.declaring.Builder().Navigation(name, fk, true, false, src)
}

// PrincipalNavigation declares a navigation on the principal end pointing
// at the dependents; it is a collection unless the foreign key is unique.
func (b *ForeignKeyBuilder) PrincipalNavigation(name string, src Source) (*NavigationBuilder, error) {
	fk := b.foreignKey
	principal := fk.PrincipalEntityType()
	if principal == nil {
		return nil, nil
	}
	return principal.Builder().Navigation(name, fk, false, !fk.IsUnique(), src)
}
