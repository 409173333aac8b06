package model

import (
	"reflect"

	"github.com/tessera-orm/tessera"
)

// PropertyBuilder is the mutation surface over one property. Each
// attribute follows the same precedence gate: CanSetX probes without side
// effects, the setter mutates and records the source only on success, and a
// nil value reverts the attribute to its unset default, clearing the
// recorded source with it.
type PropertyBuilder struct {
	property     *Property
	modelBuilder *ModelBuilder
}

// Builder returns the builder wrapping this property.
func (p *Property) Builder() *PropertyBuilder {
	if p.b == nil {
		p.b = &PropertyBuilder{property: p, modelBuilder: p.declaring.model.builder}
	}
	return p.b
}

// Metadata returns the property the builder wraps.
func (b *PropertyBuilder) Metadata() *Property {
	return b.property
}

// CanSetRequired probes whether IsRequired would succeed at src.
func (b *PropertyBuilder) CanSetRequired(required *bool, src Source) bool {
	p := b.property
	if !p.nullable.CanSet(src) {
		return false
	}
	if required != nil && !*required && p.shape != nil && !shapeNullable(p.shape) {
		return false
	}
	return true
}

// IsRequired configures nullability: required means non-nullable. A nil
// value clears the configuration, reverting to the shape-derived default.
// Making a property backed by a non-nullable shape optional is a
// configuration error for explicit callers and a silent rejection for
// everyone else.
func (b *PropertyBuilder) IsRequired(required *bool, src Source) (*PropertyBuilder, error) {
	p := b.property
	if required != nil && !*required && p.shape != nil && !shapeNullable(p.shape) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(p.declaring.name, p.name,
				"property with non-nullable shape "+p.shape.String()+" cannot be optional")
		}
		return nil, nil
	}
	var nullable *bool
	if required != nil {
		nullable = ptr(!*required)
	}
	old := p.IsNullable()
	if !p.nullable.Set(nullable, src) {
		return nil, nil
	}
	if old != p.IsNullable() {
		batch := p.declaring.model.dispatcher.StartBatch()
		defer batch.Close()
		p.declaring.model.dispatcher.onPropertyNullableChanged(b, old, p.IsNullable())
	}
	return b, nil
}

// CanSetField probes whether HasField would succeed at src.
func (b *PropertyBuilder) CanSetField(name string, src Source) bool {
	if !b.property.field.CanSet(src) {
		return false
	}
	return name == "" || b.fieldCompatible(name)
}

// HasField associates a backing-storage field with the property. The field
// must exist on the declaring type's shape with a compatible type; explicit
// incompatibility is a hard error, not a silent rejection. An empty name
// clears the mapping.
func (b *PropertyBuilder) HasField(name string, src Source) (*PropertyBuilder, error) {
	p := b.property
	if name != "" && !b.fieldCompatible(name) {
		if src == SourceExplicit {
			return nil, tessera.NewConfigurationError(p.declaring.name, p.name,
				"field "+name+" is missing or incompatible on the declaring shape")
		}
		return nil, nil
	}
	var v *string
	if name != "" {
		v = &name
	}
	if !p.field.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

func (b *PropertyBuilder) fieldCompatible(name string) bool {
	p := b.property
	shape := p.declaring.shape
	if shape == nil || shape.Kind() != reflect.Struct {
		// Nothing to validate against: shadow entity types record the
		// field name as-is.
		return true
	}
	field, ok := shape.FieldByName(name)
	if !ok {
		return false
	}
	if p.shape == nil {
		return true
	}
	return field.Type.AssignableTo(p.shape) || p.shape.AssignableTo(field.Type)
}

// CanSetAccessMode probes whether UseAccessMode would succeed at src.
func (b *PropertyBuilder) CanSetAccessMode(src Source) bool {
	return b.property.access.CanSet(src)
}

// UseAccessMode configures how values flow through the backing shape.
func (b *PropertyBuilder) UseAccessMode(mode *AccessMode, src Source) (*PropertyBuilder, error) {
	if !b.property.access.Set(mode, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetValueGenerated probes whether ValueGenerated would succeed at src.
func (b *PropertyBuilder) CanSetValueGenerated(src Source) bool {
	return b.property.valueGenerated.CanSet(src)
}

// ValueGenerated configures the store generation strategy.
func (b *PropertyBuilder) ValueGenerated(v *ValueGenerated, src Source) (*PropertyBuilder, error) {
	if !b.property.valueGenerated.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetConcurrencyToken probes whether IsConcurrencyToken would succeed.
func (b *PropertyBuilder) CanSetConcurrencyToken(src Source) bool {
	return b.property.concurrency.CanSet(src)
}

// IsConcurrencyToken flags the property for optimistic concurrency checks.
func (b *PropertyBuilder) IsConcurrencyToken(v *bool, src Source) (*PropertyBuilder, error) {
	if !b.property.concurrency.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetBeforeSaveBehavior probes whether BeforeSaveBehavior would succeed.
func (b *PropertyBuilder) CanSetBeforeSaveBehavior(src Source) bool {
	return b.property.beforeSave.CanSet(src)
}

// BeforeSaveBehavior configures the behavior before the entity exists in
// the store.
func (b *PropertyBuilder) BeforeSaveBehavior(v *SaveBehavior, src Source) (*PropertyBuilder, error) {
	if !b.property.beforeSave.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetAfterSaveBehavior probes whether AfterSaveBehavior would succeed.
func (b *PropertyBuilder) CanSetAfterSaveBehavior(src Source) bool {
	return b.property.afterSave.CanSet(src)
}

// AfterSaveBehavior configures the behavior after the entity exists in the
// store.
func (b *PropertyBuilder) AfterSaveBehavior(v *SaveBehavior, src Source) (*PropertyBuilder, error) {
	if !b.property.afterSave.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// CanSetConverter probes whether HasConverter would succeed at src.
func (b *PropertyBuilder) CanSetConverter(src Source) bool {
	return b.property.converter.CanSet(src)
}

// HasConverter configures the registered value converter by name. An empty
// name clears the configuration.
func (b *PropertyBuilder) HasConverter(name string, src Source) (*PropertyBuilder, error) {
	var v *string
	if name != "" {
		v = &name
	}
	if !b.property.converter.Set(v, src) {
		return nil, nil
	}
	return b, nil
}

// HasAnnotation records a source-tracked annotation on the property.
func (b *PropertyBuilder) HasAnnotation(name string, value any, src Source) (*PropertyBuilder, error) {
	if !b.property.SetAnnotation(name, value, src) {
		return nil, nil
	}
	return b, nil
}

// Attach re-declares the property on a different entity type, replaying
// every attribute that has ever been recorded, together with its recorded
// source, onto the new declaration. This is how entity-type replacement
// keeps accumulated configuration instead of losing it.
func (b *PropertyBuilder) Attach(target *EntityTypeBuilder) (*PropertyBuilder, error) {
	p := b.property
	nb, err := target.PropertyWithShape(p.name, p.shape, p.source)
	if nb == nil || err != nil {
		return nil, err
	}
	np := nb.Metadata()
	if v, ok := p.nullable.Get(); ok {
		if _, err := nb.IsRequired(ptr(!v), p.nullable.Source()); err != nil {
			return nil, err
		}
	}
	if v, ok := p.field.Get(); ok {
		if _, err := nb.HasField(v, p.field.Source()); err != nil {
			return nil, err
		}
	}
	if v, ok := p.access.Get(); ok {
		np.access.Set(&v, p.access.Source())
	}
	if v, ok := p.valueGenerated.Get(); ok {
		np.valueGenerated.Set(&v, p.valueGenerated.Source())
	}
	if v, ok := p.concurrency.Get(); ok {
		np.concurrency.Set(&v, p.concurrency.Source())
	}
	if v, ok := p.beforeSave.Get(); ok {
		np.beforeSave.Set(&v, p.beforeSave.Source())
	}
	if v, ok := p.afterSave.Get(); ok {
		np.afterSave.Set(&v, p.afterSave.Source())
	}
	if v, ok := p.converter.Get(); ok {
		np.converter.Set(&v, p.converter.Source())
	}
	for name, ann := range p.annotations {
		np.SetAnnotation(name, ann.value, ann.source)
	}
	return nb, nil
}
