package validate

import (
	"errors"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestRulesValidatesWholeValue(t *testing.T) {
	schema := Rules[string](validation.Required, validation.Length(2, 10))

	if _, err := schema.Parse("ok"); err != nil {
		t.Fatalf("expected valid value, got %v", err)
	}
	if _, err := schema.Parse(""); err == nil {
		t.Fatal("expected required failure")
	}
	if _, err := schema.Parse("x"); err == nil {
		t.Fatal("expected length failure")
	}
}

func TestKeysValidatesMapShape(t *testing.T) {
	schema := Keys(
		Field("name", validation.Required),
		Field("role", validation.In("admin", "viewer")),
	)

	valid := map[string]any{"name": "ada", "role": "admin"}
	if _, err := schema.Parse(valid); err != nil {
		t.Fatalf("expected valid map, got %v", err)
	}

	invalid := map[string]any{"name": "", "role": "root"}
	_, err := schema.Parse(invalid)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected the offending key in the message, got %v", err)
	}
}

func TestForCoercesValues(t *testing.T) {
	schema := For(func(v string) (string, error) {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return v, errors.New("blank")
		}
		return trimmed, nil
	})

	parsed, err := schema.Parse("  hi  ")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if parsed != "hi" {
		t.Fatalf("expected coerced value, got %q", parsed)
	}

	if _, err := schema.Parse("   "); err == nil {
		t.Fatal("expected blank failure")
	}
}

func TestForRejectsNilCheck(t *testing.T) {
	schema := For[string](nil)
	if _, err := schema.Parse("anything"); err == nil {
		t.Fatal("expected nil-check failure")
	}
}

type signupForm struct {
	Email string
}

func (f signupForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required),
	)
}

func TestSelfUsesValidatable(t *testing.T) {
	schema := Self[signupForm]()

	if _, err := schema.Parse(signupForm{Email: "a@b.co"}); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	if _, err := schema.Parse(signupForm{}); err == nil {
		t.Fatal("expected required failure")
	}
}

func TestTypeOfNormalizesMismatch(t *testing.T) {
	schema := TypeOf[string](validation.Required)

	parsed, err := schema.Parse("hello")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if parsed != "hello" {
		t.Fatalf("unexpected value: %v", parsed)
	}

	if _, err := schema.Parse(123); err == nil {
		t.Fatal("expected type mismatch failure")
	}
}
