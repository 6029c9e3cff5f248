// File: strata/raw.go
package strata

// RawSettings is the merged, deserialized but not yet validated state of a
// resolution pass. Every declared field is absent-able here: building a
// RawSettings can fail only on a type mismatch, never on absence.
//
// Validation consumes the RawSettings: Schema.Validate transfers its
// store into the validated view and leaves the raw object inert, so no
// code path can keep reading pre-validation state alongside the validated
// view.
type RawSettings struct {
	schema     *Schema
	values     map[string]Value
	provenance map[string]string
	consumed   bool
}

// Schema returns the schema this raw state was resolved against.
func (r *RawSettings) Schema() *Schema { return r.schema }

// Lookup returns the merged value for a declared field, reporting absence
// via the second return. A consumed RawSettings reports every field
// absent.
func (r *RawSettings) Lookup(name string) (Value, bool) {
	if r.consumed {
		return Value{}, false
	}
	v, ok := r.values[name]
	return v, ok
}

// Provenance returns the name of the source that supplied the field's
// winning value ("default" when the declared default applied), or false if
// the field is absent.
func (r *RawSettings) Provenance(name string) (string, bool) {
	if r.consumed {
		return "", false
	}
	p, ok := r.provenance[name]
	return p, ok
}

// Consumed reports whether validation has taken ownership of this object.
func (r *RawSettings) Consumed() bool { return r.consumed }
