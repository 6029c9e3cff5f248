// File: strata/schema.go
package strata

import (
	"fmt"
	"strings"
)

// Field declares one setting: its identifier, scalar kind, whether it is
// mandatory, and an optional default. The same identifier names the
// config-file key, the environment variable (after transform), and the
// command-line flag for one logical setting.
type Field struct {
	name      string
	kind      Kind
	mandatory bool
	def       *Value
}

// Mandatory declares a field that must resolve to a present value before
// validation succeeds.
func Mandatory(name string, kind Kind) Field {
	return Field{name: name, kind: kind, mandatory: true}
}

// Optional declares a field whose absence is a valid, expected state.
func Optional(name string, kind Kind) Field {
	return Field{name: name, kind: kind}
}

// WithDefault attaches a default value, applied only when no source
// supplies the field. Defaults have the lowest priority. A mandatory field
// with a default can never fail presence validation.
func (f Field) WithDefault(v Value) Field {
	f.def = &v
	return f
}

// Name returns the field identifier.
func (f Field) Name() string { return f.name }

// Kind returns the declared scalar kind.
func (f Field) Kind() Kind { return f.kind }

// IsMandatory reports whether the field was declared mandatory.
func (f Field) IsMandatory() bool { return f.mandatory }

// Default returns the declared default, if any.
func (f Field) Default() (Value, bool) {
	if f.def == nil {
		return Value{}, false
	}
	return *f.def, true
}

// Schema is the immutable set of field declarations for one application.
// It is declared once at startup and drives both merging (which keys are
// kept, which kinds they coerce to) and validation (which fields must be
// present). Declaration order is the validation order.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from an ordered list of field declarations.
// Field names must be unique, non-empty dotted paths of bare-key segments
// (letters, digits, underscore, dash). Defaults must match the declared
// kind.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name cannot be empty")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %q declares no fields", name)
	}

	s := &Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(s.fields, fields)

	for i, f := range s.fields {
		if f.name == "" {
			return nil, fmt.Errorf("schema %q: field %d has empty name", name, i)
		}
		for _, segment := range strings.Split(f.name, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("schema %q: invalid segment %q in field %q", name, segment, f.name)
			}
		}
		if f.kind < KindBool || f.kind > KindString {
			return nil, fmt.Errorf("schema %q: field %q has invalid kind", name, f.name)
		}
		if _, dup := s.index[f.name]; dup {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.name)
		}
		if f.def != nil && f.def.Kind() != f.kind {
			return nil, fmt.Errorf("schema %q: field %q declared %s but default is %s",
				name, f.name, f.kind, f.def.Kind())
		}
		s.index[f.name] = i
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on a malformed declaration.
// Schemas are static program data, so a declaration error is a programming
// bug caught at startup.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(fmt.Sprintf("strata: %v", err))
	}
	return s
}

// Name returns the schema name, used in validation error reports.
func (s *Schema) Name() string { return s.name }

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a declaration by identifier.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// FieldNames returns the declared identifiers in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}
