// File: strata/source.go
package strata

import "context"

// Standard provenance names. Custom sources pick their own.
const (
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlags   = "flags"
	SourceArgs    = "args"
	SourceDefault = "default"
)

// Source is an origin of configuration values. A source owns (or borrows)
// its backing data and exposes it as a flat identifier→value map; sources
// never see each other or the merged result, so a source's own logic
// cannot depend on ordering within a pass.
//
// Load materializes the backing data. A load failure is fatal to the
// resolution pass unless the source itself chooses to degrade (a file
// source marked optional returns an empty map for a missing file).
type Source interface {
	// Name returns the provenance label attached to every value this
	// source supplies.
	Name() string

	// Load returns the identifier→value pairs the source can supply.
	// Absent identifiers are simply not present in the map; values keep
	// whatever type the backing format produced.
	Load(ctx context.Context) (map[string]any, error)
}

// StaticSource supplies a fixed map of values. It is useful in tests and
// for injecting programmatic overrides as a layer.
type StaticSource struct {
	name   string
	values map[string]any
}

// NewStaticSource wraps a literal value map as a source.
func NewStaticSource(name string, values map[string]any) *StaticSource {
	return &StaticSource{name: name, values: values}
}

// Name implements Source.
func (s *StaticSource) Name() string { return s.name }

// Load implements Source. The map is copied so callers cannot mutate the
// source's backing data after the pass.
func (s *StaticSource) Load(context.Context) (map[string]any, error) {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}
