package model

import "reflect"

// ValueGenerated describes when store values are generated for a property.
type ValueGenerated uint8

const (
	// ValueGeneratedNever means values are always supplied by the caller.
	ValueGeneratedNever ValueGenerated = iota
	// ValueGeneratedOnAdd means the store generates a value on insert.
	ValueGeneratedOnAdd
	// ValueGeneratedOnUpdate means the store generates a value on update.
	ValueGeneratedOnUpdate
	// ValueGeneratedOnAddOrUpdate means the store generates a value on both.
	ValueGeneratedOnAddOrUpdate
)

// String returns the generation strategy name.
func (v ValueGenerated) String() string {
	switch v {
	case ValueGeneratedOnAdd:
		return "OnAdd"
	case ValueGeneratedOnUpdate:
		return "OnUpdate"
	case ValueGeneratedOnAddOrUpdate:
		return "OnAddOrUpdate"
	default:
		return "Never"
	}
}

// SaveBehavior describes how a property value is treated when an entity is
// saved before or after it first exists in the store.
type SaveBehavior uint8

const (
	// SaveBehaviorSave persists the value.
	SaveBehaviorSave SaveBehavior = iota
	// SaveBehaviorIgnore silently skips the value.
	SaveBehaviorIgnore
	// SaveBehaviorThrow rejects the save when a value is present.
	SaveBehaviorThrow
)

// String returns the save behavior name.
func (s SaveBehavior) String() string {
	switch s {
	case SaveBehaviorIgnore:
		return "Ignore"
	case SaveBehaviorThrow:
		return "Throw"
	default:
		return "Save"
	}
}

// Property is a scalar member of an entity type. Every configurable
// attribute is paired with the configuration source that set it.
type Property struct {
	propertyBase

	// shape is the optional backing type descriptor. A nil shape marks a
	// shadow property that exists only in the model.
	shape reflect.Type

	nullable       attr[bool]
	concurrency    attr[bool]
	valueGenerated attr[ValueGenerated]
	beforeSave     attr[SaveBehavior]
	afterSave      attr[SaveBehavior]
	converter      attr[string]

	b *PropertyBuilder
}

// Shape returns the backing type descriptor, nil for shadow properties.
func (p *Property) Shape() reflect.Type {
	return p.shape
}

// IsShadow reports whether the property has no backing shape.
func (p *Property) IsShadow() bool {
	return p.shape == nil
}

// IsNullable reports whether the property may hold no value. When no
// nullability has been configured the default follows the backing shape:
// shapes that cannot represent absence are non-nullable, shadow properties
// default to nullable.
func (p *Property) IsNullable() bool {
	if v, ok := p.nullable.Get(); ok {
		return v
	}
	return shapeNullable(p.shape)
}

// NullableSource returns the source that configured nullability.
func (p *Property) NullableSource() Source {
	return p.nullable.Source()
}

// IsConcurrencyToken reports whether the property participates in
// optimistic concurrency checks.
func (p *Property) IsConcurrencyToken() bool {
	return p.concurrency.ValueOr(false)
}

// ConcurrencyTokenSource returns the source that configured the flag.
func (p *Property) ConcurrencyTokenSource() Source {
	return p.concurrency.Source()
}

// GetValueGenerated returns the store generation strategy.
func (p *Property) GetValueGenerated() ValueGenerated {
	return p.valueGenerated.ValueOr(ValueGeneratedNever)
}

// ValueGeneratedSource returns the source that configured the strategy.
func (p *Property) ValueGeneratedSource() Source {
	return p.valueGenerated.Source()
}

// GetBeforeSaveBehavior returns the behavior applied before the entity
// exists in the store.
func (p *Property) GetBeforeSaveBehavior() SaveBehavior {
	return p.beforeSave.ValueOr(SaveBehaviorSave)
}

// BeforeSaveBehaviorSource returns the source that configured it.
func (p *Property) BeforeSaveBehaviorSource() Source {
	return p.beforeSave.Source()
}

// GetAfterSaveBehavior returns the behavior applied after the entity exists
// in the store.
func (p *Property) GetAfterSaveBehavior() SaveBehavior {
	return p.afterSave.ValueOr(SaveBehaviorSave)
}

// AfterSaveBehaviorSource returns the source that configured it.
func (p *Property) AfterSaveBehaviorSource() Source {
	return p.afterSave.Source()
}

// ConverterName returns the registered name of the configured value
// converter, empty when none is set.
func (p *Property) ConverterName() string {
	return p.converter.ValueOr("")
}

// ConverterSource returns the source that configured the converter.
func (p *Property) ConverterSource() Source {
	return p.converter.Source()
}

// IsKeyProperty reports whether the property participates in any key
// declared on its entity type.
func (p *Property) IsKeyProperty() bool {
	for _, k := range p.declaring.Keys() {
		for _, kp := range k.Properties() {
			if kp == p {
				return true
			}
		}
	}
	return false
}

// shapeNullable reports whether a backing shape can represent absence.
// A nil shape (shadow property) can.
func shapeNullable(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}
