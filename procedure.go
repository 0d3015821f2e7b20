// Package procedure assembles, around a single HTTP operation, a pipeline
// of input validation, retryable execution, transformation, output
// validation, lifecycle hooks, and unified error mapping, and exposes it as
// one callable unit that never fails with an exception and instead returns
// a tagged Result.
package procedure

import (
	"context"

	"github.com/goliatone/go-procedure/retry"
)

// Request bundles the values a handler operates on: the caller-supplied
// context value and transport client fixed at builder creation, plus the
// validated input for this invocation.
type Request[C, K, I any] struct {
	Ctx    C
	Client K
	Input  I
}

// Handler is the main operation of a procedure.
type Handler[C, K, I, O any] func(ctx context.Context, req Request[C, K, I]) (O, error)

// Transform reshapes the handler output before output validation.
type Transform[O any] func(ctx context.Context, output O) (O, error)

// Hook is a side-effect-only callback invoked at a fixed pipeline point.
type Hook func(ctx context.Context) error

// CompleteInfo is handed to the completion hook on both paths.
// IsSuccess and IsError are always opposites; Err is non-nil iff IsError.
type CompleteInfo[I, O any] struct {
	IsSuccess bool
	IsError   bool
	// Input is the post-validation input, or the raw input when input
	// validation itself failed before producing a parsed value.
	Input I
	// Output is whatever had been computed before the call settled;
	// the zero value when the pipeline failed before the handler returned.
	Output O
	Err    error
}

// CompleteHook observes the settled outcome of every invocation.
type CompleteHook[I, O any] func(ctx context.Context, info CompleteInfo[I, O]) error

// CatchAll maps the caught pipeline error to the caller's error type. It is
// the terminal configurator: setting it finalizes the builder.
type CatchAll[E any] func(err error) E

// config is the effectively-immutable record behind one procedure. It is
// mutated only by the builder during the synchronous configuration phase and
// read-only once captured by a Procedure.
type config[C, K, I, O, E any] struct {
	ctx    C
	client K

	inputSchema    Schema[I]
	outputSchema   Schema[O]
	outputSchemaFn OutputSchemaFunc[C, I, O]
	retryOpts      retry.Options
	transform      Transform[O]
	catchAll       CatchAll[E]
	onStart        Hook
	onSuccess      Hook
	onComplete     CompleteHook[I, O]
	handler        Handler[C, K, I, O]
	logger         Logger
}

// slotFlags tracks which single-use configurators have fired. Retry and
// WithLogger are deliberately absent: both overwrite.
type slotFlags struct {
	input      bool
	output     bool
	transform  bool
	handler    bool
	onStart    bool
	onSuccess  bool
	onComplete bool
	catchAll   bool
}

// Builder accumulates a procedure configuration through fluent single-use
// setters and terminates into a Procedure via CatchAll. A Builder is not
// safe for concurrent use; it is meant to be configured by the single
// caller that created it.
type Builder[C, K, I, O, E any] struct {
	cfg  config[C, K, I, O, E]
	used slotFlags
}

// New starts a builder closed over the given context value and transport
// client. Every call yields an independent configuration. The retry policy
// starts at the default single attempt with a 100ms delay.
func New[C, K, I, O, E any](ctx C, client K) *Builder[C, K, I, O, E] {
	return &Builder[C, K, I, O, E]{
		cfg: config[C, K, I, O, E]{
			ctx:    ctx,
			client: client,
			retryOpts: retry.Options{
				Attempts: retry.DefaultAttempts,
				Strategy: retry.FixedDelay(retry.DefaultDelay),
			},
		},
	}
}

func claimSlot(used *bool, name string) {
	if *used {
		panic(&ConfigurationError{
			Field:   name,
			Message: name + "() can only be called once",
		})
	}
	*used = true
}

// Input sets the input schema. Panics with *ConfigurationError when called
// twice.
func (b *Builder[C, K, I, O, E]) Input(schema Schema[I]) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.input, "Input")
	b.cfg.inputSchema = schema
	return b
}

// OnStart sets the hook that runs before anything else. Single-use.
func (b *Builder[C, K, I, O, E]) OnStart(hook Hook) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.onStart, "OnStart")
	b.cfg.onStart = hook
	return b
}

// OnSuccess sets the hook that runs after output validation on the success
// path. Single-use.
func (b *Builder[C, K, I, O, E]) OnSuccess(hook Hook) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.onSuccess, "OnSuccess")
	b.cfg.onSuccess = hook
	return b
}

// Retry replaces the retry policy wholesale. Unlike the other setters it is
// overwriting, not single-use, because the policy always has a sensible
// default; a zero Options resets to that default.
func (b *Builder[C, K, I, O, E]) Retry(opts retry.Options) *Builder[C, K, I, O, E] {
	if opts.Attempts < 1 {
		opts.Attempts = retry.DefaultAttempts
	}
	if opts.Strategy == nil {
		opts.Strategy = retry.FixedDelay(retry.DefaultDelay)
	}
	b.cfg.retryOpts = opts
	return b
}

// Handler sets the main operation. Single-use; required before CatchAll.
func (b *Builder[C, K, I, O, E]) Handler(fn Handler[C, K, I, O]) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.handler, "Handler")
	b.cfg.handler = fn
	return b
}

// Output sets a static output schema. Shares a single-use slot with
// OutputFunc: only one of the two may be configured.
func (b *Builder[C, K, I, O, E]) Output(schema Schema[O]) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.output, "Output")
	b.cfg.outputSchema = schema
	return b
}

// OutputFunc sets a dynamic output schema evaluated against the context
// value, the validated input, and the produced output. Shares the Output
// slot.
func (b *Builder[C, K, I, O, E]) OutputFunc(fn OutputSchemaFunc[C, I, O]) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.output, "Output")
	b.cfg.outputSchemaFn = fn
	return b
}

// Transform sets the post-handler output transformation. Single-use.
func (b *Builder[C, K, I, O, E]) Transform(fn Transform[O]) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.transform, "Transform")
	b.cfg.transform = fn
	return b
}

// OnComplete sets the hook notified exactly once per invocation, on both
// paths. Single-use.
func (b *Builder[C, K, I, O, E]) OnComplete(hook CompleteHook[I, O]) *Builder[C, K, I, O, E] {
	claimSlot(&b.used.onComplete, "OnComplete")
	b.cfg.onComplete = hook
	return b
}

// WithLogger injects the sink that swallowed completion-hook failures are
// reported through. Overwriting; defaults to the local FmtLogger.
func (b *Builder[C, K, I, O, E]) WithLogger(logger Logger) *Builder[C, K, I, O, E] {
	b.cfg.logger = logger
	return b
}

// CatchAll sets the terminal error mapper and finalizes the configuration,
// returning the callable procedure. It is the single transition out of the
// builder state; no configurator is reachable through the returned value.
// Panics with *ConfigurationError when called twice or when no handler has
// been configured.
func (b *Builder[C, K, I, O, E]) CatchAll(fn CatchAll[E]) *Procedure[C, K, I, O, E] {
	claimSlot(&b.used.catchAll, "CatchAll")
	b.cfg.catchAll = fn
	if b.cfg.handler == nil {
		panic(&ConfigurationError{
			Field:   "Handler",
			Message: "Handler() must be configured before CatchAll()",
		})
	}
	return &Procedure[C, K, I, O, E]{cfg: b.cfg}
}
