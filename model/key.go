package model

import "strings"

// Key is a unique identity over an ordered sequence of properties. The
// properties remain owned by their declaring entity type; the key holds
// non-owning references.
type Key struct {
	declaring  *EntityType
	properties []*Property
	source     Source
}

// DeclaringEntityType returns the entity type that declares the key.
func (k *Key) DeclaringEntityType() *EntityType {
	return k.declaring
}

// Properties returns the key properties in declaration order.
func (k *Key) Properties() []*Property {
	return k.properties
}

// GetSource returns the configuration source that created the key.
func (k *Key) GetSource() Source {
	return k.source
}

// IsPrimary reports whether the key is its entity type's primary key.
func (k *Key) IsPrimary() bool {
	return k.declaring.PrimaryKey() == k
}

// ReferencingForeignKeys returns every foreign key in the model whose
// principal key is this key. Principal references are name handles, so the
// scan resolves them against the live graph.
func (k *Key) ReferencingForeignKeys() []*ForeignKey {
	var refs []*ForeignKey
	for _, et := range k.declaring.model.EntityTypes() {
		for _, fk := range et.ForeignKeys() {
			if fk.PrincipalKey() == k {
				refs = append(refs, fk)
			}
		}
	}
	return refs
}

// propertyListName identifies a property list inside an entity type's key
// and index mappings.
func propertyListName(properties []*Property) string {
	names := make([]string, len(properties))
	for i, p := range properties {
		names[i] = p.Name()
	}
	return strings.Join(names, ",")
}

// propertyNames returns the names of the given properties in order.
func propertyNames(properties []*Property) []string {
	names := make([]string, len(properties))
	for i, p := range properties {
		names[i] = p.Name()
	}
	return names
}
