package procedure

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-procedure/retry"
)

// Procedure is a finalized, invocable pipeline. It is safe for concurrent
// use: every invocation owns its local state and the captured configuration
// is never mutated after construction.
type Procedure[C, K, I, O, E any] struct {
	cfg config[C, K, I, O, E]
}

// Call runs the pipeline once for the given input and always returns a
// Result; expected failures never surface as panics or returned errors.
// The only exception is invoking a procedure that was not built through a
// Builder and lacks a handler, which panics with *ConfigurationError before
// any hook runs.
func (p *Procedure[C, K, I, O, E]) Call(ctx context.Context, input I) Result[O, E] {
	if p.cfg.handler == nil {
		panic(&ConfigurationError{
			Field:   "Handler",
			Message: "procedure invoked without a handler",
		})
	}

	// Per-invocation state; nothing here is shared across calls.
	parsedInput := input
	var output O

	runErr := func() error {
		if err := runHook(ctx, "onStart", p.cfg.onStart); err != nil {
			return err
		}

		var err error
		parsedInput, err = processInput(input, p.cfg.inputSchema)
		if err != nil {
			return err
		}

		output, err = p.invokeHandler(ctx, parsedInput)
		if err != nil {
			return err
		}

		// Transform runs before output validation: what gets validated is
		// what the caller will actually receive.
		if p.cfg.transform != nil {
			output, err = p.applyTransform(ctx, output)
			if err != nil {
				return err
			}
		}

		output, err = processOutput(p.cfg.ctx, parsedInput, output, p.cfg.outputSchema, p.cfg.outputSchemaFn)
		if err != nil {
			return err
		}

		return runHook(ctx, "onSuccess", p.cfg.onSuccess)
	}()

	p.notifyComplete(ctx, parsedInput, output, runErr)

	if runErr != nil {
		return Failure[O, E](p.mapError(runErr))
	}
	return Success[O, E](output)
}

// invokeHandler runs the main operation inside the retry loop. Retry wraps
// only the handler: a flaky operation is retried, a broken transform or
// output schema is not masked by retrying.
func (p *Procedure[C, K, I, O, E]) invokeHandler(ctx context.Context, input I) (O, error) {
	opts := p.cfg.retryOpts
	if opts.ShouldRetry == nil {
		opts.ShouldRetry = RetryEligible
	}

	req := Request[C, K, I]{
		Ctx:    p.cfg.ctx,
		Client: p.cfg.client,
		Input:  input,
	}

	return retry.Do(ctx, opts, func(ctx context.Context) (out O, err error) {
		defer recoverStage("handler", &err)
		return p.cfg.handler(ctx, req)
	})
}

func (p *Procedure[C, K, I, O, E]) applyTransform(ctx context.Context, value O) (out O, err error) {
	defer recoverStage("transform", &err)
	return p.cfg.transform(ctx, value)
}

// notifyComplete fires the completion hook exactly once per call. A failure
// inside the hook itself is logged and swallowed so it never masks the
// outcome already determined for this call.
func (p *Procedure[C, K, I, O, E]) notifyComplete(ctx context.Context, input I, output O, runErr error) {
	if p.cfg.onComplete == nil {
		return
	}

	logger := normalizeLogger(p.cfg.logger).WithContext(ctx)

	info := CompleteInfo[I, O]{
		IsSuccess: runErr == nil,
		IsError:   runErr != nil,
		Input:     input,
		Output:    output,
		Err:       runErr,
	}

	var hookErr error
	func() {
		defer recoverStage("onComplete hook", &hookErr)
		hookErr = p.cfg.onComplete(ctx, info)
	}()

	if hookErr != nil {
		withLoggerFields(logger, map[string]any{
			"hook":    "onComplete",
			"success": info.IsSuccess,
		}).Warn("onComplete hook failed: %v", hookErr)
	}
}

// mapError funnels the caught error through the configured catch-all. The
// catch-all is always present for procedures built through CatchAll; the
// fallbacks cover a mapper explicitly set to nil.
func (p *Procedure[C, K, I, O, E]) mapError(err error) E {
	if p.cfg.catchAll != nil {
		return p.cfg.catchAll(err)
	}
	if mapped, ok := any(err).(E); ok {
		return mapped
	}
	var zero E
	return zero
}

// runHook invokes an optional lifecycle hook, wrapping a failure with the
// hook's name so the caller can tell which stage broke.
func runHook(ctx context.Context, name string, hook Hook) error {
	if hook == nil {
		return nil
	}

	var err error
	func() {
		defer recoverStage(name+" hook", &err)
		err = hook(ctx)
	}()

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryHandler, name+" hook failed").
			WithTextCode("PROC_HOOK_FAILED").
			WithMetadata(map[string]any{"hook": name})
	}
	return nil
}
