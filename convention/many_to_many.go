package convention

import "github.com/tessera-orm/tessera/model"

// ManyToManyAssociation resolves a pair of mutually inverse collection skip
// navigations into a full many-to-many relationship: it generates an
// association entity type, derives one foreign key per endpoint, binds the
// navigations to the keys and declares a composite primary key over both
// keys' properties. If any step fails, everything created so far is removed
// again; the net effect of a failed run is a complete no-op.
type ManyToManyAssociation struct{}

// Name returns the convention name used in configuration.
func (ManyToManyAssociation) Name() string { return "ManyToManyAssociation" }

// ProcessSkipNavigationAdded resolves the relationship once both endpoints
// exist.
func (c ManyToManyAssociation) ProcessSkipNavigationAdded(b *model.SkipNavigationBuilder, ctx *model.Context) {
	c.process(b, ctx)
}

// ProcessSkipNavigationInverseChanged resolves the relationship when the
// pairing is configured after both navigations were declared.
func (c ManyToManyAssociation) ProcessSkipNavigationInverseChanged(b *model.SkipNavigationBuilder, _ *model.SkipNavigation, ctx *model.Context) {
	c.process(b, ctx)
}

func (c ManyToManyAssociation) process(b *model.SkipNavigationBuilder, ctx *model.Context) {
	nav := b.Metadata()
	declaring := nav.DeclaringEntityType()
	target := nav.TargetEntityType()
	if !nav.IsCollection() || nav.ForeignKey() != nil || target == nil || target == declaring {
		return
	}
	inverse := nav.Inverse()
	if inverse == nil || !inverse.IsCollection() || inverse.ForeignKey() != nil {
		return
	}

	m := declaring.Model()
	mb := m.Builder()
	batch := ctx.Dispatcher().StartBatch()
	defer batch.Close()

	name := model.Uniquify(model.TypeName(declaring.Name(), target.Name()), 0,
		func(n string) bool { return m.FindEntityType(n) != nil })
	assocBuilder, err := mb.ImplicitEntity(name, model.SourceConvention)
	if assocBuilder == nil || err != nil {
		return
	}
	assoc := assocBuilder.Metadata()
	abandon := func() {
		// Cascades through any foreign key already created on the
		// association type, leaving the model untouched.
		_, _ = mb.RemoveEntityType(assoc, model.SourceConvention)
	}

	leftFK, err := assocBuilder.HasRelationship(declaring, nil, model.SourceConvention)
	if leftFK == nil || err != nil {
		abandon()
		return
	}
	rightFK, err := assocBuilder.HasRelationship(target, nil, model.SourceConvention)
	if rightFK == nil || err != nil {
		abandon()
		return
	}

	if res, err := b.HasForeignKey(leftFK.Metadata(), model.SourceConvention); res == nil || err != nil {
		abandon()
		return
	}
	if res, err := inverse.Builder().HasForeignKey(rightFK.Metadata(), model.SourceConvention); res == nil || err != nil {
		abandon()
		return
	}

	// Composite primary key: left foreign key's properties, then right's.
	var pkNames []string
	for _, p := range leftFK.Metadata().Properties() {
		pkNames = append(pkNames, p.Name())
	}
	for _, p := range rightFK.Metadata().Properties() {
		pkNames = append(pkNames, p.Name())
	}
	if kb, err := assocBuilder.PrimaryKey(pkNames, model.SourceConvention); kb == nil || err != nil {
		abandon()
		return
	}
}

var (
	_ model.SkipNavigationAddedConvention          = ManyToManyAssociation{}
	_ model.SkipNavigationInverseChangedConvention = ManyToManyAssociation{}
)
