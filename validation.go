package procedure

// Schema is the contract an injected validator must satisfy. Parse checks
// the value and returns it, possibly coerced; the returned value is what
// flows into the next pipeline stage.
type Schema[T any] interface {
	Parse(value T) (T, error)
}

// SchemaFunc adapts a function into a Schema.
type SchemaFunc[T any] func(value T) (T, error)

// Parse calls the underlying function.
func (f SchemaFunc[T]) Parse(value T) (T, error) {
	return f(value)
}

// OutputSchemaFunc produces an output schema from runtime state, letting the
// output shape depend on the request that produced the data being validated.
type OutputSchemaFunc[C, I, O any] func(ctx C, input I, output O) Schema[O]

// processInput passes a value through the optional input schema. The parsed
// value replaces the raw one so schema coercions are visible downstream.
func processInput[I any](value I, schema Schema[I]) (I, error) {
	if schema == nil {
		return value, nil
	}
	parsed, err := schema.Parse(value)
	if err != nil {
		return value, &ValidationError{ValidationType: ValidationInput, Err: err}
	}
	return parsed, nil
}

// processOutput resolves the effective output schema, evaluating the dynamic
// form against (ctx, input, output) when configured, then parses the value.
func processOutput[C, I, O any](ctx C, input I, output O, schema Schema[O], schemaFn OutputSchemaFunc[C, I, O]) (O, error) {
	if schemaFn != nil {
		schema = schemaFn(ctx, input, output)
	}
	if schema == nil {
		return output, nil
	}
	parsed, err := schema.Parse(output)
	if err != nil {
		return output, &ValidationError{ValidationType: ValidationOutput, Err: err}
	}
	return parsed, nil
}
