// File: strata/validated.go
package strata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Validate checks presence of every mandatory field and, on success,
// produces the validated view. Fields are checked in declaration order and
// the first missing mandatory field fails the pass with a
// *MissingFieldError naming the field and the schema; optional fields are
// never consulted.
//
// Validate consumes raw: its store is transferred into the returned view
// and the raw object becomes inert. Calling Validate twice on the same
// RawSettings is an error.
func (s *Schema) Validate(raw *RawSettings) (*ValidatedSettings, error) {
	if raw == nil {
		return nil, fmt.Errorf("schema %q: cannot validate nil settings", s.name)
	}
	if raw.consumed {
		return nil, fmt.Errorf("schema %q: raw settings already consumed by validation", s.name)
	}
	if raw.schema != s {
		return nil, fmt.Errorf("schema %q: raw settings were resolved against schema %q", s.name, raw.schema.name)
	}

	for _, field := range s.fields {
		if !field.mandatory {
			continue
		}
		if _, present := raw.values[field.name]; !present {
			return nil, &MissingFieldError{Schema: s.name, Field: field.name}
		}
	}

	v := &ValidatedSettings{
		schema:     s,
		values:     raw.values,
		provenance: raw.provenance,
	}

	// Ownership transfer: the validated view is now the only reachable
	// holder of the resolved state.
	raw.values = nil
	raw.provenance = nil
	raw.consumed = true

	return v, nil
}

// ValidatedSettings is the post-validation settings view. Mandatory fields
// are guaranteed present and exposed as bare scalars; optional fields stay
// absent-able. The view is immutable for its whole lifetime and safe to
// share across goroutines without synchronization.
//
// The mandatory accessors panic only on caller bugs: an undeclared
// identifier, a kind that disagrees with the declaration, or a mandatory
// accessor used on an optional field. A correct caller can never observe
// a presence panic, because validation already guaranteed presence.
type ValidatedSettings struct {
	schema     *Schema
	values     map[string]Value
	provenance map[string]string
}

// Schema returns the schema the view was validated against.
func (v *ValidatedSettings) Schema() *Schema { return v.schema }

// String returns a mandatory string field.
func (v *ValidatedSettings) String(name string) string {
	return v.mandatory(name, KindString).s
}

// Int64 returns a mandatory integer field.
func (v *ValidatedSettings) Int64(name string) int64 {
	return v.mandatory(name, KindInt).i
}

// Float64 returns a mandatory float field.
func (v *ValidatedSettings) Float64(name string) float64 {
	return v.mandatory(name, KindFloat).f
}

// Bool returns a mandatory boolean field.
func (v *ValidatedSettings) Bool(name string) bool {
	return v.mandatory(name, KindBool).b
}

// StringOpt returns an optional string field and whether it resolved.
func (v *ValidatedSettings) StringOpt(name string) (string, bool) {
	val, ok := v.optional(name, KindString)
	return val.s, ok
}

// Int64Opt returns an optional integer field and whether it resolved.
func (v *ValidatedSettings) Int64Opt(name string) (int64, bool) {
	val, ok := v.optional(name, KindInt)
	return val.i, ok
}

// Float64Opt returns an optional float field and whether it resolved.
func (v *ValidatedSettings) Float64Opt(name string) (float64, bool) {
	val, ok := v.optional(name, KindFloat)
	return val.f, ok
}

// BoolOpt returns an optional boolean field and whether it resolved.
func (v *ValidatedSettings) BoolOpt(name string) (bool, bool) {
	val, ok := v.optional(name, KindBool)
	return val.b, ok
}

// Lookup returns any declared field's value, absent-able. It works for
// mandatory and optional fields alike and never panics on absence.
func (v *ValidatedSettings) Lookup(name string) (Value, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Provenance returns the name of the source that supplied the field's
// value ("default" for declared defaults), or "" for an unresolved
// optional field.
func (v *ValidatedSettings) Provenance(name string) string {
	return v.provenance[name]
}

func (v *ValidatedSettings) mandatory(name string, kind Kind) Value {
	field := v.declared(name, kind)
	if !field.mandatory {
		panic(fmt.Sprintf("strata: field %q in schema %q is optional; use the Opt accessor", name, v.schema.name))
	}
	val, present := v.values[name]
	if !present {
		// Unreachable through the public API: Validate refuses to build
		// the view with a mandatory field absent.
		panic(fmt.Sprintf("strata: mandatory field %q absent in validated schema %q", name, v.schema.name))
	}
	return val
}

func (v *ValidatedSettings) optional(name string, kind Kind) (Value, bool) {
	v.declared(name, kind)
	val, present := v.values[name]
	return val, present
}

func (v *ValidatedSettings) declared(name string, kind Kind) Field {
	field, ok := v.schema.Field(name)
	if !ok {
		panic(fmt.Sprintf("strata: field %q not declared in schema %q", name, v.schema.name))
	}
	if field.kind != kind {
		panic(fmt.Sprintf("strata: field %q declared %s, accessed as %s", name, field.kind, kind))
	}
	return field
}

// Scan decodes the validated settings into the target struct or map using
// the "toml" tag, the same tag the file layer keys off. Scan lives on the
// validated view on purpose: pre-validation state is not decodable.
func (v *ValidatedSettings) Scan(target any) error {
	nested := make(map[string]any)
	for name, val := range v.values {
		setNestedValue(nested, name, val.Interface())
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(nested); err != nil {
		return fmt.Errorf("failed to scan settings into %T: %w", target, err)
	}

	return nil
}

// Debug returns a human-readable rendering of every declared field, its
// resolved value, and its provenance, in a stable order.
func (v *ValidatedSettings) Debug() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema %q:\n", v.schema.name)

	names := v.schema.FieldNames()
	sort.Strings(names)
	for _, name := range names {
		field, _ := v.schema.Field(name)
		requirement := "optional"
		if field.mandatory {
			requirement = "mandatory"
		}
		if val, ok := v.values[name]; ok {
			fmt.Fprintf(&b, "  %s = %v (%s, %s, from %s)\n",
				name, val.Interface(), field.kind, requirement, v.provenance[name])
		} else {
			fmt.Fprintf(&b, "  %s = <unset> (%s, %s)\n", name, field.kind, requirement)
		}
	}

	return b.String()
}
