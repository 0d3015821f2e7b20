// Package validate provides concrete Schema implementations backed by
// ozzo-validation, for callers that want rule-based validation without
// writing their own Schema glue.
package validate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	procedure "github.com/goliatone/go-procedure"
)

// Rules builds a schema applying the given ozzo rules to the whole value.
func Rules[T any](rules ...validation.Rule) procedure.Schema[T] {
	return procedure.SchemaFunc[T](func(value T) (T, error) {
		if err := validation.Validate(value, rules...); err != nil {
			return value, err
		}
		return value, nil
	})
}

// Keys builds a schema for map-shaped values, validating each named key with
// its own rules.
func Keys(keys ...*validation.KeyRules) procedure.Schema[map[string]any] {
	return procedure.SchemaFunc[map[string]any](func(value map[string]any) (map[string]any, error) {
		if err := validation.Validate(value, validation.Map(keys...)); err != nil {
			return value, err
		}
		return value, nil
	})
}

// Self builds a schema for values that validate themselves through the
// validation.Validatable interface.
func Self[T validation.Validatable]() procedure.Schema[T] {
	return procedure.SchemaFunc[T](func(value T) (T, error) {
		if err := value.Validate(); err != nil {
			return value, err
		}
		return value, nil
	})
}

// For builds a schema from an arbitrary check function, with optional
// coercion: the returned value replaces the validated one downstream.
func For[T any](check func(T) (T, error)) procedure.Schema[T] {
	if check == nil {
		return procedure.SchemaFunc[T](func(value T) (T, error) {
			return value, goerrors.New("nil schema check", goerrors.CategoryValidation).
				WithTextCode("NIL_SCHEMA_CHECK")
		})
	}
	return procedure.SchemaFunc[T](check)
}

// Field pairs a key with its rules, mirroring validation.Key for readability
// at call sites that build Keys schemas.
func Field(name string, rules ...validation.Rule) *validation.KeyRules {
	return validation.Key(name, rules...)
}

// TypeOf builds a schema over any-typed values that asserts the concrete
// type before applying rules, normalizing a mismatch into a validation
// failure instead of a panic.
func TypeOf[T any](rules ...validation.Rule) procedure.Schema[any] {
	return procedure.SchemaFunc[any](func(value any) (any, error) {
		typed, ok := value.(T)
		if !ok {
			var want T
			return value, goerrors.New(
				fmt.Sprintf("expected %T, got %T", want, value),
				goerrors.CategoryValidation,
			).WithTextCode("SCHEMA_TYPE_MISMATCH")
		}
		if err := validation.Validate(typed, rules...); err != nil {
			return value, err
		}
		return typed, nil
	})
}
