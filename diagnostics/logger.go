package diagnostics

import "go.uber.org/zap"

// Logger reports model-building events to a zap logger. All methods are safe
// on a nil receiver, which behaves like Nop().
type Logger struct {
	z *zap.Logger
}

// New returns a Logger writing to z. A nil z yields a no-op logger.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) logger() *zap.Logger {
	if l == nil || l.z == nil {
		return zap.NewNop()
	}
	return l.z
}

// EntityTypeAdded reports a new entity type in the model.
func (l *Logger) EntityTypeAdded(d EntityTypeData) {
	l.logger().Debug("entity type added", zap.String("entity_type", d.EntityType))
}

// EntityTypeRemoved reports an entity type removed from the model.
func (l *Logger) EntityTypeRemoved(d EntityTypeData) {
	l.logger().Debug("entity type removed", zap.String("entity_type", d.EntityType))
}

// MemberAdded reports a new member (property, navigation, key, foreign key
// or index) on an entity type.
func (l *Logger) MemberAdded(kind string, d MemberData) {
	l.logger().Debug("member added",
		zap.String("kind", kind),
		zap.String("entity_type", d.EntityType),
		zap.String("member", d.Member))
}

// MemberRemoved reports a removed member.
func (l *Logger) MemberRemoved(kind string, d MemberData) {
	l.logger().Debug("member removed",
		zap.String("kind", kind),
		zap.String("entity_type", d.EntityType),
		zap.String("member", d.Member))
}

// ValueChanged reports an attribute change on a member.
func (l *Logger) ValueChanged(attribute string, d ValueChangeData) {
	l.logger().Debug("attribute changed",
		zap.String("attribute", attribute),
		zap.String("entity_type", d.EntityType),
		zap.String("member", d.Member),
		zap.Any("old", d.Old),
		zap.Any("new", d.New))
}

// RelationshipAdded reports a new foreign key between two entity types.
func (l *Logger) RelationshipAdded(d RelationshipData) {
	l.logger().Debug("relationship added",
		zap.String("declaring_entity_type", d.DeclaringEntityType),
		zap.String("principal_entity_type", d.PrincipalEntityType),
		zap.Strings("properties", d.Properties))
}

// ModelFinalizing reports that the model is running its finalizing
// conventions.
func (l *Logger) ModelFinalizing(entityTypes int) {
	l.logger().Debug("model finalizing", zap.Int("entity_types", entityTypes))
}
