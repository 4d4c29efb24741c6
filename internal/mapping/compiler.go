package mapping

import (
	"github.com/rs/zerolog"

	"mapforge/internal/content"
	"mapforge/internal/diagnostic"
	"mapforge/internal/resource"
	"mapforge/internal/schema"
)

// EntityModel resolves entity descriptors by name. *schema.Registry is
// the canonical implementation.
type EntityModel interface {
	Entity(name string) (*schema.Entity, error)
}

// Result is the outcome of one compilation.
type Result struct {
	// Entity is the root entity name.
	Entity string

	// Mapping is the compiled mapping document.
	Mapping []byte

	// Diagnostics collects the non-fatal findings of the run.
	Diagnostics diagnostic.Diagnostics
}

// Compiler compiles entity descriptors into mapping documents. It is
// immutable after New and safe for concurrent use: all per-run state
// lives in the compilation.
type Compiler struct {
	model     EntityModel
	resources resource.Loader
	logger    zerolog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithResources sets the loader for external mapping fragments. Without
// one, declared fragments behave like missing resources.
func WithResources(loader resource.Loader) Option {
	return func(c *Compiler) {
		c.resources = loader
	}
}

// WithLogger sets the compiler logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a compiler over the given entity model.
func New(model EntityModel, opts ...Option) *Compiler {
	c := &Compiler{
		model:  model,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile builds the mapping document for the named entity.
func (c *Compiler) Compile(entityName string) (*Result, error) {
	entity, err := c.model.Entity(entityName)
	if err != nil {
		return nil, &CompilationError{Entity: entityName, Err: err}
	}

	run := &compilation{
		compiler: c,
		builder:  content.NewBuilder(),
		// The root entity decides type hinting for the whole document,
		// embedded entities included.
		typeHints: entity.WriteTypeHints(),
		logger:    c.logger.With().Str("entity", entityName).Logger(),
	}

	runtimeFields := run.resolveRuntimeFields(entity)

	run.builder.StartObject("")
	run.writeDynamicTemplates(entity)

	scope := entityScope{
		isRoot:        true,
		fieldType:     schema.FieldTypeAuto,
		dynamicHint:   entity.DynamicMapping,
		runtimeFields: runtimeFields,
	}

	if err := run.mapEntity(entity, scope); err != nil {
		return nil, err
	}

	run.builder.EndObject()

	out, err := run.builder.Bytes()
	if err != nil {
		return nil, &CompilationError{Entity: entityName, Err: err}
	}

	return &Result{Entity: entityName, Mapping: out, Diagnostics: run.diags}, nil
}

// compilation is the call-scoped state of one Compile run. Nothing here
// outlives the call, which keeps a shared Compiler race-free.
type compilation struct {
	compiler  *Compiler
	builder   *content.Builder
	typeHints bool
	logger    zerolog.Logger
	diags     diagnostic.Diagnostics
}
