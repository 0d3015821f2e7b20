package procedure_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	procedure "github.com/goliatone/go-procedure"
	"github.com/goliatone/go-procedure/retry"
	"github.com/goliatone/go-procedure/validate"
)

func expectConfigPanic(t *testing.T, field string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a configuration panic")
		}
		cfgErr, ok := r.(*procedure.ConfigurationError)
		if !ok {
			t.Fatalf("expected *ConfigurationError, got %T: %v", r, r)
		}
		if cfgErr.Field != field {
			t.Fatalf("expected field %q, got %q", field, cfgErr.Field)
		}
	}()
	fn()
}

func TestBuilderSingleUseSetters(t *testing.T) {
	noopHook := func(context.Context) error { return nil }
	noopComplete := func(context.Context, procedure.CompleteInfo[string, string]) error { return nil }
	noopSchema := validate.For(func(v string) (string, error) { return v, nil })
	noopHandler := func(_ context.Context, _ procedure.Request[struct{}, struct{}, string]) (string, error) {
		return "", nil
	}
	noopTransform := func(_ context.Context, v string) (string, error) { return v, nil }

	cases := []struct {
		field string
		apply func(b *echoBuilder)
	}{
		{"Input", func(b *echoBuilder) { b.Input(noopSchema) }},
		{"OnStart", func(b *echoBuilder) { b.OnStart(noopHook) }},
		{"OnSuccess", func(b *echoBuilder) { b.OnSuccess(noopHook) }},
		{"Handler", func(b *echoBuilder) { b.Handler(noopHandler) }},
		{"Output", func(b *echoBuilder) { b.Output(noopSchema) }},
		{"Transform", func(b *echoBuilder) { b.Transform(noopTransform) }},
		{"OnComplete", func(b *echoBuilder) { b.OnComplete(noopComplete) }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			b := newEcho()
			tc.apply(b)
			expectConfigPanic(t, tc.field, func() { tc.apply(b) })
		})
	}
}

func TestOutputAndOutputFuncShareOneSlot(t *testing.T) {
	b := newEcho().Output(validate.For(func(v string) (string, error) { return v, nil }))
	expectConfigPanic(t, "Output", func() {
		b.OutputFunc(func(struct{}, string, string) procedure.Schema[string] { return nil })
	})
}

func TestRetryOverwritesInsteadOfPanicking(t *testing.T) {
	calls := 0
	proc := newEcho().
		Retry(retry.Options{Attempts: 9}).
		Retry(retry.Options{Attempts: 2, Strategy: retry.FixedDelay(time.Millisecond)}).
		Handler(func(_ context.Context, _ procedure.Request[struct{}, struct{}, string]) (string, error) {
			calls++
			return "", errors.New("transient")
		}).
		CatchAll(identity)

	proc.Call(context.Background(), "x")
	if calls != 2 {
		t.Fatalf("expected the second retry policy to win, got %d calls", calls)
	}
}

func TestRetryZeroValueResetsToDefault(t *testing.T) {
	calls := 0
	proc := newEcho().
		Retry(retry.Options{}).
		Handler(func(_ context.Context, _ procedure.Request[struct{}, struct{}, string]) (string, error) {
			calls++
			return "", errors.New("transient")
		}).
		CatchAll(identity)

	proc.Call(context.Background(), "x")
	if calls != 1 {
		t.Fatalf("default policy is a single attempt, got %d calls", calls)
	}
}

func TestCatchAllRequiresHandler(t *testing.T) {
	expectConfigPanic(t, "Handler", func() {
		newEcho().CatchAll(identity)
	})
}

func TestCatchAllCalledTwicePanics(t *testing.T) {
	b := newEcho().Handler(func(_ context.Context, _ procedure.Request[struct{}, struct{}, string]) (string, error) {
		return "", nil
	})
	b.CatchAll(identity)
	expectConfigPanic(t, "CatchAll", func() { b.CatchAll(identity) })
}

func TestZeroValueProcedurePanics(t *testing.T) {
	var proc procedure.Procedure[struct{}, struct{}, string, string, error]
	expectConfigPanic(t, "Handler", func() {
		proc.Call(context.Background(), "x")
	})
}

type apiCtx struct {
	Tenant string
}

type stubClient struct {
	requests int
}

func greetingProcedure() *procedure.Procedure[apiCtx, *stubClient, map[string]any, map[string]any, string] {
	nameIsString := validation.By(func(v interface{}) error {
		if _, ok := v.(string); !ok {
			return errors.New("must be a string")
		}
		return nil
	})

	return procedure.New[apiCtx, *stubClient, map[string]any, map[string]any, string](apiCtx{Tenant: "acme"}, &stubClient{}).
		Input(validate.Keys(validate.Field("name", validation.Required, nameIsString))).
		Handler(func(_ context.Context, req procedure.Request[apiCtx, *stubClient, map[string]any]) (map[string]any, error) {
			req.Client.requests++
			return map[string]any{"greeting": fmt.Sprintf("Hello %v", req.Input["name"])}, nil
		}).
		CatchAll(func(err error) string { return err.Error() })
}

func TestGreetingProcedureValidInput(t *testing.T) {
	proc := greetingProcedure()

	res := proc.Call(context.Background(), map[string]any{"name": "John"})
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Err)
	}
	if res.Data["greeting"] != "Hello John" {
		t.Fatalf("unexpected greeting: %v", res.Data["greeting"])
	}
	if res.Err != "" {
		t.Fatalf("expected empty error on success, got %q", res.Err)
	}
}

func TestGreetingProcedureInvalidInput(t *testing.T) {
	proc := greetingProcedure()

	res := proc.Call(context.Background(), map[string]any{"name": 123})
	if res.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Err, "input validation failed") {
		t.Fatalf("expected an input validation message, got %q", res.Err)
	}
}

func TestEachFactoryCallYieldsIndependentConfiguration(t *testing.T) {
	a := newEcho()
	b := newEcho()
	a.Input(validate.For(func(v string) (string, error) { return v, nil }))
	// configuring one builder must not claim slots on another
	b.Input(validate.For(func(v string) (string, error) { return v, nil }))
}
