package diagnostics

// EntityTypeData describes an event involving a single entity type.
type EntityTypeData struct {
	// EntityType is the display name of the entity type involved.
	EntityType string
}

// MemberData describes an event involving one structural member of an
// entity type (a property, navigation, key, foreign key or index).
type MemberData struct {
	EntityType string
	// Member is the member name; for keys, foreign keys and indexes it is
	// the comma-joined list of property names.
	Member string
}

// ValueChangeData describes an attribute change on a member, carrying the
// old and the new value. Values are live references where applicable, never
// frozen copies.
type ValueChangeData struct {
	EntityType string
	Member     string
	Old        any
	New        any
}

// RelationshipData describes an event involving both ends of a
// relationship.
type RelationshipData struct {
	DeclaringEntityType string
	PrincipalEntityType string
	// Properties holds the dependent-end property names in key order.
	Properties []string
}
