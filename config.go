package procedure

import (
	"os"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-procedure/retry"
)

// Defaults carries externally configured pipeline defaults, typically loaded
// once at startup and used to seed builders across a host application.
type Defaults struct {
	Retry RetryDefaults `json:"retry" yaml:"retry"`
}

// RetryDefaults mirrors the retry policy knobs in config form. Durations are
// integer milliseconds to keep config files toolchain-agnostic.
type RetryDefaults struct {
	Attempts      int     `json:"attempts" yaml:"attempts"`
	DelayMS       int     `json:"delay_ms" yaml:"delay_ms"`
	BackoffFactor float64 `json:"backoff_factor" yaml:"backoff_factor"`
	MaxDelayMS    int     `json:"max_delay_ms" yaml:"max_delay_ms"`
}

// Validate rejects negative budgets and delays.
func (d Defaults) Validate() error {
	if d.Retry.Attempts < 0 {
		return goerrors.New("retry attempts cannot be negative", goerrors.CategoryBadInput).
			WithTextCode("INVALID_RETRY_ATTEMPTS").
			WithMetadata(map[string]any{"attempts": d.Retry.Attempts})
	}
	if d.Retry.DelayMS < 0 || d.Retry.MaxDelayMS < 0 {
		return goerrors.New("retry delay cannot be negative", goerrors.CategoryBadInput).
			WithTextCode("INVALID_RETRY_DELAY").
			WithMetadata(map[string]any{
				"delay_ms":     d.Retry.DelayMS,
				"max_delay_ms": d.Retry.MaxDelayMS,
			})
	}
	if d.Retry.BackoffFactor < 0 {
		return goerrors.New("backoff factor cannot be negative", goerrors.CategoryBadInput).
			WithTextCode("INVALID_BACKOFF_FACTOR")
	}
	return nil
}

// RetryOptions materializes the configured policy, falling back to the
// engine defaults (single attempt, 100ms fixed delay) for unset fields.
func (d Defaults) RetryOptions() retry.Options {
	opts := retry.Options{Attempts: d.Retry.Attempts}
	if opts.Attempts < 1 {
		opts.Attempts = retry.DefaultAttempts
	}

	delay := retry.DefaultDelay
	if d.Retry.DelayMS > 0 {
		delay = time.Duration(d.Retry.DelayMS) * time.Millisecond
	}

	if d.Retry.BackoffFactor > 0 {
		opts.Strategy = retry.ExponentialBackoff{
			Base:   delay,
			Factor: d.Retry.BackoffFactor,
			Max:    time.Duration(d.Retry.MaxDelayMS) * time.Millisecond,
		}
		return opts
	}

	opts.Strategy = retry.FixedDelay(delay)
	return opts
}

// ParseDefaults parses JSON or YAML into Defaults.
func ParseDefaults(data []byte) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		// yaml can handle JSON too, so a single attempt is fine
		return d, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse procedure defaults").
			WithTextCode("INVALID_DEFAULTS")
	}
	return d, d.Validate()
}

// LoadDefaults reads and parses a defaults file.
func LoadDefaults(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, goerrors.Wrap(err, goerrors.CategoryExternal, "failed to read procedure defaults").
			WithTextCode("DEFAULTS_READ_FAILED").
			WithMetadata(map[string]any{"path": path})
	}
	return ParseDefaults(data)
}
