// File: strata/merge.go
package strata

import (
	"context"

	"dario.cat/mergo"
)

// Resolve runs one resolution pass: it loads every source in order, merges
// their value maps, restricts the result to the schema's declared fields,
// coerces each value to its declared kind, and applies defaults for fields
// no source supplied.
//
// Sources are ordered lowest to highest priority: the last source that
// supplies an identifier wins. Sources are loaded independently: none
// sees another's output or the merged result. Declared defaults sit below
// every source. The pass holds no state between calls; every invocation
// rebuilds the merged mapping from scratch.
//
// Errors:
//   - a source load failure aborts the pass (ErrSourceUnavailable inside
//     an *Error); a file source marked optional degrades instead
//   - a value that cannot coerce to its declared kind aborts the pass
//     with a *TypeMismatchError
//
// Absence is never an error here; presence is checked by Schema.Validate.
func Resolve(ctx context.Context, schema *Schema, sources ...Source) (*RawSettings, error) {
	merged := make(map[string]any)
	origin := make(map[string]string)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		supplied, err := src.Load(ctx)
		if err != nil {
			return nil, newError(src.Name(), "load", err)
		}
		if supplied == nil {
			continue
		}

		// Sources only put keys they actually supply in the map, so a
		// later layer must win even when its value is a zero value
		// (false, "", 0). Override alone skips empty values.
		if err := mergo.Map(&merged, supplied, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
			return nil, newError(src.Name(), "merge", err)
		}
		for key := range supplied {
			origin[key] = src.Name()
		}
	}

	values := make(map[string]Value, len(schema.fields))
	provenance := make(map[string]string, len(schema.fields))

	for _, field := range schema.fields {
		raw, supplied := merged[field.name]
		if !supplied {
			if def, ok := field.Default(); ok {
				values[field.name] = def
				provenance[field.name] = SourceDefault
			}
			continue
		}

		v, err := Coerce(raw, field.kind)
		if err != nil {
			return nil, &TypeMismatchError{Field: field.name, Want: field.kind, Value: raw, Err: err}
		}
		values[field.name] = v
		provenance[field.name] = origin[field.name]
	}

	return &RawSettings{schema: schema, values: values, provenance: provenance}, nil
}
