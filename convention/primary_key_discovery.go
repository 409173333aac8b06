package convention

import "github.com/tessera-orm/tessera/model"

// PrimaryKeyDiscovery configures a convention primary key over a property
// named "id" (or "<type name>_id") when an entity type has none. Explicit
// and annotated primary keys always win; the discovered key also gives way
// the moment a higher-precedence source configures a different one.
type PrimaryKeyDiscovery struct{}

// Name returns the convention name used in configuration.
func (PrimaryKeyDiscovery) Name() string { return "PrimaryKeyDiscovery" }

// ProcessEntityTypeAdded discovers a key among properties that already
// exist, e.g. after an Attach replayed them onto a fresh type.
func (c PrimaryKeyDiscovery) ProcessEntityTypeAdded(b *model.EntityTypeBuilder, _ *model.Context) {
	et := b.Metadata()
	for _, p := range et.Properties() {
		c.discover(p)
	}
}

// ProcessPropertyAdded discovers a key when a candidate property appears.
func (c PrimaryKeyDiscovery) ProcessPropertyAdded(b *model.PropertyBuilder, _ *model.Context) {
	c.discover(b.Metadata())
}

func (c PrimaryKeyDiscovery) discover(p *model.Property) {
	et := p.DeclaringEntityType()
	if et.PrimaryKey() != nil || et.BaseType() != nil {
		return
	}
	name := p.Name()
	if name != "id" && name != model.PropertyName(et.Name(), "id") {
		return
	}
	_, _ = et.Builder().PrimaryKey([]string{name}, model.SourceConvention)
}

var (
	_ model.EntityTypeAddedConvention = PrimaryKeyDiscovery{}
	_ model.PropertyAddedConvention   = PrimaryKeyDiscovery{}
)
