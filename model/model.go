package model

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessera-orm/tessera"
	"github.com/tessera-orm/tessera/diagnostics"
)

// Model is the root of the conceptual model. It owns every entity type by
// name and the convention dispatcher that sequences change events for its
// lifetime; neither outlives it. A model is mutated by one logical call
// stack at a time; batching manages reentrancy, not threads.
type Model struct {
	annotatable

	id uuid.UUID

	entityTypes     map[string]*EntityType
	entityTypeNames []string

	dispatcher *Dispatcher
	builder    *ModelBuilder
	logger     *diagnostics.Logger

	finalized bool
}

// Option configures a new model.
type Option func(*options) error

type options struct {
	conventions *ConventionSet
	logger      *diagnostics.Logger
}

// WithConventions sets the convention set the model's dispatcher runs.
// Without it the model builds with no conventions registered.
func WithConventions(set *ConventionSet) Option {
	return func(o *options) error {
		if set == nil {
			return tessera.NewConfigurationError("", "", "convention set cannot be nil")
		}
		o.conventions = set
		return nil
	}
}

// WithLogger routes model-building diagnostics to the given zap logger.
func WithLogger(z *zap.Logger) Option {
	return func(o *options) error {
		o.logger = diagnostics.New(z)
		return nil
	}
}

// New creates an empty model with its own dispatcher.
func New(opts ...Option) (*Model, error) {
	o := &options{
		conventions: NewConventionSet(),
		logger:      diagnostics.Nop(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	m := &Model{
		id:          uuid.New(),
		entityTypes: make(map[string]*EntityType),
		logger:      o.logger,
	}
	m.builder = &ModelBuilder{model: m}
	m.dispatcher = newDispatcher(o.conventions, o.logger)
	return m, nil
}

// MustNew is New for hosts that configure the model statically.
func MustNew(opts ...Option) *Model {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ID returns the stable identity of this model instance, usable as a cache
// discriminator by hosts that build several models per process.
func (m *Model) ID() uuid.UUID {
	return m.id
}

// Builder returns the builder wrapping the model.
func (m *Model) Builder() *ModelBuilder {
	return m.builder
}

// Dispatcher returns the convention dispatcher owned by the model.
func (m *Model) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// EntityTypes returns the entity types in insertion order.
func (m *Model) EntityTypes() []*EntityType {
	out := make([]*EntityType, 0, len(m.entityTypeNames))
	for _, name := range m.entityTypeNames {
		out = append(out, m.entityTypes[name])
	}
	return out
}

// FindEntityType returns the entity type with the given name, nil when
// absent.
func (m *Model) FindEntityType(name string) *EntityType {
	return m.entityTypes[name]
}

// IsFinalized reports whether Finalize has completed.
func (m *Model) IsFinalized() bool {
	return m.finalized
}

// Finalize runs the model-finalizing conventions and seals the model
// against further structural mutation.
func (m *Model) Finalize() error {
	if m.finalized {
		return tessera.ErrModelFinalized
	}
	m.logger.ModelFinalizing(len(m.entityTypes))
	m.dispatcher.onModelFinalizing(m.builder)
	m.finalized = true
	return nil
}

// sealed gates structural mutation once Finalize has run: explicit callers
// get ErrModelFinalized, lower sources are rejected silently.
func (m *Model) sealed(src Source) (bool, error) {
	if !m.finalized {
		return false, nil
	}
	if src == SourceExplicit {
		return true, tessera.ErrModelFinalized
	}
	return true, nil
}

func (m *Model) addEntityType(et *EntityType) {
	m.entityTypes[et.name] = et
	m.entityTypeNames = append(m.entityTypeNames, et.name)
}

func (m *Model) removeEntityType(et *EntityType) {
	delete(m.entityTypes, et.name)
	for i, n := range m.entityTypeNames {
		if n == et.name {
			m.entityTypeNames = append(m.entityTypeNames[:i], m.entityTypeNames[i+1:]...)
			break
		}
	}
}
