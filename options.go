package localcache

import (
	"fmt"
	"log/slog"

	"github.com/relcache/localcache/internal/engine"
	"github.com/relcache/localcache/pkg/store"
)

// config bundles every knob New accepts, built up by Option funcs from
// documented defaults.
type config[K comparable, V any] struct {
	keyWeight      engine.KeyWeightFunc[K]
	valueWeight    engine.ValueWeightFunc[V]
	maxValueWeight   int64
	ageFactor        int64
	generationRatios engine.Ratios
	warmStore        store.Store[K, V]
	logger           *slog.Logger
}

// Option configures a Cache at construction time.
type Option[K comparable, V any] func(*config[K, V])

// WithKeyWeight overrides the default length-of-key weight function.
func WithKeyWeight[K comparable, V any](f engine.KeyWeightFunc[K]) Option[K, V] {
	return func(c *config[K, V]) { c.keyWeight = f }
}

// WithValueWeight overrides the default length-of-value weight function.
func WithValueWeight[K comparable, V any](f engine.ValueWeightFunc[V]) Option[K, V] {
	return func(c *config[K, V]) { c.valueWeight = f }
}

// WithMaxValueWeight wires the oversized-value rejection ceiling (§4.2);
// zero (the default) disables the check.
func WithMaxValueWeight[K comparable, V any](n int64) Option[K, V] {
	return func(c *config[K, V]) { c.maxValueWeight = n }
}

// WithAgeFactor overrides the ager schedule's age_factor (§4.4); the
// engine defaults to 10 when unset.
func WithAgeFactor[K comparable, V any](n int64) Option[K, V] {
	return func(c *config[K, V]) { c.ageFactor = n }
}

// WithGenerationRatios overrides the §4.2 eden/probation fractions of the
// total limit (protected always takes the remainder); the zero value of
// engine.Ratios keeps the canonical 1/20/79 split. A knob invited by §9's
// "implementations may tune within ±10%" note.
func WithGenerationRatios[K comparable, V any](r engine.Ratios) Option[K, V] {
	return func(c *config[K, V]) { c.generationRatios = r }
}

// WithWarmStore attaches a pkg/store.Store backend that SaveTo/LoadFrom
// bridge to, for callers that want persistence beyond a raw byte stream.
func WithWarmStore[K comparable, V any](s store.Store[K, V]) Option[K, V] {
	return func(c *config[K, V]) { c.warmStore = s }
}

// WithLogger overrides the default logger (slog.Default()). The facade logs
// an error when the engine reports an invariant violation during Set, and a
// debug line after each WriteToStream; stream and warm-store failures are
// returned to the caller, not logged.
func WithLogger[K comparable, V any](l *slog.Logger) Option[K, V] {
	return func(c *config[K, V]) { c.logger = l }
}

// defaultConfig applies the spec's length-of-key/length-of-value weight
// defaults. Since K and V are arbitrary generic types rather than always
// strings, "length" is taken over each value's fmt.Sprint form — callers
// with a meaningful byte size (e.g. []byte, or a struct with its own
// notion of weight) should supply WithKeyWeight/WithValueWeight instead.
func defaultConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		keyWeight:   func(k K) int64 { return int64(len(fmt.Sprint(k))) },
		valueWeight: func(v V) int64 { return int64(len(fmt.Sprint(v))) },
		logger:      slog.Default(),
	}
}
