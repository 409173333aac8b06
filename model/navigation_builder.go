package model

import (
	"reflect"

	"github.com/tessera-orm/tessera"
)

// NavigationBuilder is the mutation surface over one navigation.
type NavigationBuilder struct {
	navigation   *Navigation
	modelBuilder *ModelBuilder
}

// Metadata returns the navigation the builder wraps.
func (b *NavigationBuilder) Metadata() *Navigation {
	return b.navigation
}

// CanSetEagerLoaded probes whether EagerLoaded would succeed at src.
func (b *NavigationBuilder) CanSetEagerLoaded(src Source) bool {
	return b.navigation.eagerLoaded.CanSet(src)
}

// EagerLoaded configures whether the navigation loads with its declaring
// entity. A nil value clears the configuration.
func (b *NavigationBuilder) EagerLoaded(v *bool, src Source) (*NavigationBuilder, error) {
	if !b.navigation.eagerLoaded.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetField probes whether HasField would succeed at src.
func (b *NavigationBuilder) CanSetField(name string, src Source) bool {
	if !b.navigation.field.CanSet(src) {
		return false
	}
	return name == "" || navigationFieldCompatible(&b.navigation.propertyBase, name)
}

// HasField associates a backing-storage field with the navigation, with the
// same compatibility rules properties use.
func (b *NavigationBuilder) HasField(name string, src Source) (*NavigationBuilder, error) {
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

// UseAccessMode configures how values flow through the backing shape.
func (b *NavigationBuilder) UseAccessMode(mode *AccessMode, src Source) (*NavigationBuilder, error) {
	if !b.navigation.access.Set(mode, src) {
		return nil, nil
	}
	return b, nil
}

// HasAnnotation records a source-tracked annotation on the navigation.
func (b *NavigationBuilder) HasAnnotation(name string, value any, src Source) (*NavigationBuilder, error) {
	if !b.navigation.SetAnnotation(name, value, src) {
		return nil, nil
	}
	return b, nil
}

// navigationFieldCompatible checks a backing field exists on the declaring
// shape. Navigations carry no scalar shape of their own, so only presence
// is validated.
func navigationFieldCompatible(p *propertyBase, name string) bool {
	shape := p.declaring.shape
	if shape == nil || shape.Kind() != reflect.Struct {
		return true
	}
	_, ok := shape.FieldByName(name)
	return ok
}
