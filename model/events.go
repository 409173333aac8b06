package model

import "github.com/tessera-orm/tessera/diagnostics"

// eventNode is one queued model-change event. Nodes capture just enough
// identity to re-fetch current state at dispatch time: conventions inspect
// the live graph, never a snapshot, because the graph may have changed
// between raise and drain.
type eventNode interface {
	dispatch(d *Dispatcher)
}

func (d *Dispatcher) onEntityTypeAdded(b *EntityTypeBuilder) {
	d.logger.EntityTypeAdded(diagnostics.EntityTypeData{EntityType: b.Metadata().Name()})
	d.raise(entityTypeAddedNode{builder: b})
}

type entityTypeAddedNode struct{ builder *EntityTypeBuilder }

func (n entityTypeAddedNode) dispatch(d *Dispatcher) {
	et := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.EntityTypeAdded {
		if !et.InModel() {
			return
		}
		c.ProcessEntityTypeAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onEntityTypeRemoved(mb *ModelBuilder, removed *EntityType) {
	d.logger.EntityTypeRemoved(diagnostics.EntityTypeData{EntityType: removed.Name()})
	d.raise(entityTypeRemovedNode{builder: mb, removed: removed})
}

type entityTypeRemovedNode struct {
	builder *ModelBuilder
	removed *EntityType
}

func (n entityTypeRemovedNode) dispatch(d *Dispatcher) {
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.EntityTypeRemoved {
		c.ProcessEntityTypeRemoved(n.builder, n.removed, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onBaseTypeChanged(b *EntityTypeBuilder, oldBase *EntityType) {
	var oldName any
	if oldBase != nil {
		oldName = oldBase.Name()
	}
	d.logger.ValueChanged("base_type", diagnostics.ValueChangeData{
		EntityType: b.Metadata().Name(),
		Old:        oldName,
		New:        b.Metadata().baseTypeName,
	})
	d.raise(baseTypeChangedNode{builder: b, oldBase: oldBase})
}

type baseTypeChangedNode struct {
	builder *EntityTypeBuilder
	oldBase *EntityType
}

func (n baseTypeChangedNode) dispatch(d *Dispatcher) {
	et := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.BaseTypeChanged {
		if !et.InModel() {
			return
		}
		c.ProcessBaseTypeChanged(n.builder, et.BaseType(), n.oldBase, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onPropertyAdded(b *PropertyBuilder) {
	p := b.Metadata()
	d.logger.MemberAdded("property", diagnostics.MemberData{
		EntityType: p.DeclaringEntityType().Name(),
		Member:     p.Name(),
	})
	d.raise(propertyAddedNode{builder: b})
}

type propertyAddedNode struct{ builder *PropertyBuilder }

func (n propertyAddedNode) dispatch(d *Dispatcher) {
	p := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.PropertyAdded {
		if p.DeclaringEntityType().FindDeclaredProperty(p.Name()) != p {
			return
		}
		c.ProcessPropertyAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onPropertyNullableChanged(b *PropertyBuilder, old, new bool) {
	p := b.Metadata()
	d.logger.ValueChanged("nullable", diagnostics.ValueChangeData{
		EntityType: p.DeclaringEntityType().Name(),
		Member:     p.Name(),
		Old:        old,
		New:        new,
	})
	d.raise(propertyNullableChangedNode{builder: b, nullable: new})
}

type propertyNullableChangedNode struct {
	builder  *PropertyBuilder
	nullable bool
}

func (n propertyNullableChangedNode) dispatch(d *Dispatcher) {
	p := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.PropertyNullableChanged {
		if p.DeclaringEntityType().FindDeclaredProperty(p.Name()) != p {
			return
		}
		// A rollback may have restored the prior nullability before the
		// batch drained; the recorded change is stale then.
		if p.IsNullable() != n.nullable {
			return
		}
		c.ProcessPropertyNullableChanged(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onKeyAdded(b *KeyBuilder) {
	k := b.Metadata()
	d.logger.MemberAdded("key", diagnostics.MemberData{
		EntityType: k.DeclaringEntityType().Name(),
		Member:     propertyListName(k.Properties()),
	})
	d.raise(keyAddedNode{builder: b})
}

type keyAddedNode struct{ builder *KeyBuilder }

func (n keyAddedNode) dispatch(d *Dispatcher) {
	k := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.KeyAdded {
		if k.DeclaringEntityType().FindKey(k.Properties()) != k {
			return
		}
		c.ProcessKeyAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onKeyRemoved(b *EntityTypeBuilder, key *Key) {
	d.logger.MemberRemoved("key", diagnostics.MemberData{
		EntityType: b.Metadata().Name(),
		Member:     propertyListName(key.Properties()),
	})
	d.raise(keyRemovedNode{builder: b, key: key})
}

type keyRemovedNode struct {
	builder *EntityTypeBuilder
	key     *Key
}

func (n keyRemovedNode) dispatch(d *Dispatcher) {
	et := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.KeyRemoved {
		if !et.InModel() {
			return
		}
		c.ProcessKeyRemoved(n.builder, n.key, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onPrimaryKeyChanged(b *EntityTypeBuilder, oldKey *Key) {
	d.raise(primaryKeyChangedNode{builder: b, oldKey: oldKey})
}

type primaryKeyChangedNode struct {
	builder *EntityTypeBuilder
	oldKey  *Key
}

func (n primaryKeyChangedNode) dispatch(d *Dispatcher) {
	et := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.PrimaryKeyChanged {
		if !et.InModel() {
			return
		}
		c.ProcessPrimaryKeyChanged(n.builder, et.PrimaryKey(), n.oldKey, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onForeignKeyAdded(b *ForeignKeyBuilder) {
	fk := b.Metadata()
	d.logger.RelationshipAdded(diagnostics.RelationshipData{
		DeclaringEntityType: fk.DeclaringEntityType().Name(),
		PrincipalEntityType: fk.principalTypeName,
		Properties:          propertyNames(fk.Properties()),
	})
	d.raise(foreignKeyAddedNode{builder: b})
}

type foreignKeyAddedNode struct{ builder *ForeignKeyBuilder }

func (n foreignKeyAddedNode) dispatch(d *Dispatcher) {
	fk := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.ForeignKeyAdded {
		if !fk.declaring.InModel() || fk.declaring.FindForeignKey(fk.Properties(), fk.principalTypeName) != fk {
			return
		}
		c.ProcessForeignKeyAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onForeignKeyRemoved(b *EntityTypeBuilder, fk *ForeignKey) {
	d.logger.MemberRemoved("foreign_key", diagnostics.MemberData{
		EntityType: b.Metadata().Name(),
		Member:     propertyListName(fk.Properties()),
	})
	d.raise(foreignKeyRemovedNode{builder: b, foreignKey: fk})
}

type foreignKeyRemovedNode struct {
	builder    *EntityTypeBuilder
	foreignKey *ForeignKey
}

func (n foreignKeyRemovedNode) dispatch(d *Dispatcher) {
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.ForeignKeyRemoved {
		c.ProcessForeignKeyRemoved(n.builder, n.foreignKey, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onNavigationAdded(b *NavigationBuilder) {
	nav := b.Metadata()
	d.logger.MemberAdded("navigation", diagnostics.MemberData{
		EntityType: nav.DeclaringEntityType().Name(),
		Member:     nav.Name(),
	})
	d.raise(navigationAddedNode{builder: b})
}

type navigationAddedNode struct{ builder *NavigationBuilder }

func (n navigationAddedNode) dispatch(d *Dispatcher) {
	nav := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.NavigationAdded {
		if nav.DeclaringEntityType().FindNavigation(nav.Name()) != nav {
			return
		}
		c.ProcessNavigationAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onSkipNavigationAdded(b *SkipNavigationBuilder) {
	nav := b.Metadata()
	d.logger.MemberAdded("skip_navigation", diagnostics.MemberData{
		EntityType: nav.DeclaringEntityType().Name(),
		Member:     nav.Name(),
	})
	d.raise(skipNavigationAddedNode{builder: b})
}

type skipNavigationAddedNode struct{ builder *SkipNavigationBuilder }

func (n skipNavigationAddedNode) dispatch(d *Dispatcher) {
	nav := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.SkipNavigationAdded {
		if nav.DeclaringEntityType().FindSkipNavigation(nav.Name()) != nav {
			return
		}
		c.ProcessSkipNavigationAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onSkipNavigationRemoved(b *EntityTypeBuilder, nav *SkipNavigation) {
	d.logger.MemberRemoved("skip_navigation", diagnostics.MemberData{
		EntityType: b.Metadata().Name(),
		Member:     nav.Name(),
	})
	d.raise(skipNavigationRemovedNode{builder: b, navigation: nav})
}

type skipNavigationRemovedNode struct {
	builder    *EntityTypeBuilder
	navigation *SkipNavigation
}

func (n skipNavigationRemovedNode) dispatch(d *Dispatcher) {
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.SkipNavigationRemoved {
		c.ProcessSkipNavigationRemoved(n.builder, n.navigation, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onSkipNavigationInverseChanged(b *SkipNavigationBuilder, old string) {
	nav := b.Metadata()
	d.logger.ValueChanged("inverse", diagnostics.ValueChangeData{
		EntityType: nav.DeclaringEntityType().Name(),
		Member:     nav.Name(),
		Old:        old,
		New:        nav.inverseName,
	})
	d.raise(skipNavigationInverseChangedNode{builder: b})
}

type skipNavigationInverseChangedNode struct{ builder *SkipNavigationBuilder }

func (n skipNavigationInverseChangedNode) dispatch(d *Dispatcher) {
	nav := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.SkipNavigationInverseChanged {
		if nav.DeclaringEntityType().FindSkipNavigation(nav.Name()) != nav {
			return
		}
		c.ProcessSkipNavigationInverseChanged(n.builder, nav.Inverse(), ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onSkipNavigationForeignKeyChanged(b *SkipNavigationBuilder, oldFK *ForeignKey) {
	nav := b.Metadata()
	d.logger.ValueChanged("foreign_key", diagnostics.ValueChangeData{
		EntityType: nav.DeclaringEntityType().Name(),
		Member:     nav.Name(),
		Old:        oldFK,
		New:        nav.ForeignKey(),
	})
	d.raise(skipNavigationForeignKeyChangedNode{builder: b, oldForeignKey: oldFK})
}

type skipNavigationForeignKeyChangedNode struct {
	builder       *SkipNavigationBuilder
	oldForeignKey *ForeignKey
}

func (n skipNavigationForeignKeyChangedNode) dispatch(d *Dispatcher) {
	nav := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.SkipNavigationForeignKeyChanged {
		if nav.DeclaringEntityType().FindSkipNavigation(nav.Name()) != nav {
			return
		}
		c.ProcessSkipNavigationForeignKeyChanged(n.builder, nav.ForeignKey(), n.oldForeignKey, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onIndexAdded(b *IndexBuilder) {
	idx := b.Metadata()
	d.logger.MemberAdded("index", diagnostics.MemberData{
		EntityType: idx.DeclaringEntityType().Name(),
		Member:     propertyListName(idx.Properties()),
	})
	d.raise(indexAddedNode{builder: b})
}

type indexAddedNode struct{ builder *IndexBuilder }

func (n indexAddedNode) dispatch(d *Dispatcher) {
	idx := n.builder.Metadata()
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.IndexAdded {
		if idx.DeclaringEntityType().FindIndex(idx.Properties()) != idx {
			return
		}
		c.ProcessIndexAdded(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onIndexRemoved(b *EntityTypeBuilder, idx *Index) {
	d.logger.MemberRemoved("index", diagnostics.MemberData{
		EntityType: b.Metadata().Name(),
		Member:     propertyListName(idx.Properties()),
	})
	d.raise(indexRemovedNode{builder: b, index: idx})
}

type indexRemovedNode struct {
	builder *EntityTypeBuilder
	index   *Index
}

func (n indexRemovedNode) dispatch(d *Dispatcher) {
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.IndexRemoved {
		c.ProcessIndexRemoved(n.builder, n.index, ctx)
		if ctx.stopped {
			return
		}
	}
}

func (d *Dispatcher) onModelFinalizing(b *ModelBuilder) {
	d.raise(modelFinalizingNode{builder: b})
}

type modelFinalizingNode struct{ builder *ModelBuilder }

func (n modelFinalizingNode) dispatch(d *Dispatcher) {
	ctx := &Context{dispatcher: d}
	for _, c := range d.conventions.ModelFinalizing {
		c.ProcessModelFinalizing(n.builder, ctx)
		if ctx.stopped {
			return
		}
	}
}
