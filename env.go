// File: strata/env.go
package strata

import (
	"context"
	"os"
	"strings"
)

// EnvTransformFunc converts a field identifier to an environment variable
// name.
type EnvTransformFunc func(name string) string

// DefaultEnvTransform uppercases the identifier, replaces dots with
// underscores, and prepends the prefix: "server.port" with prefix "MYAPP_"
// becomes "MYAPP_SERVER_PORT".
func DefaultEnvTransform(prefix string) EnvTransformFunc {
	return func(name string) string {
		env := strings.ReplaceAll(name, ".", "_")
		env = strings.ToUpper(env)
		return prefix + env
	}
}

// EnvSource loads values from a snapshot of the process environment. It
// probes forward from the declared field names rather than scanning the
// environment: reversing the name mangling is ambiguous for identifiers
// that contain underscores ("phone_number" vs "phone.number"), whereas the
// forward mapping is exact. Absent variables supply no value; values
// arrive as strings and are coerced at deserialization time.
type EnvSource struct {
	keys      []string
	transform EnvTransformFunc
}

// NewEnvSource creates a source probing the given field identifiers with
// the default transform and prefix.
func NewEnvSource(prefix string, keys ...string) *EnvSource {
	return &EnvSource{keys: keys, transform: DefaultEnvTransform(prefix)}
}

// NewEnvSourceFor creates a source probing the schema's declared fields.
func NewEnvSourceFor(schema *Schema, prefix string) *EnvSource {
	return NewEnvSource(prefix, schema.FieldNames()...)
}

// WithTransform replaces the identifier→variable mapping.
func (e *EnvSource) WithTransform(fn EnvTransformFunc) *EnvSource {
	if fn != nil {
		e.transform = fn
	}
	return e
}

// Name implements Source.
func (e *EnvSource) Name() string { return SourceEnv }

// Load implements Source.
func (e *EnvSource) Load(context.Context) (map[string]any, error) {
	found := make(map[string]any)
	for _, key := range e.keys {
		if value, exists := os.LookupEnv(e.transform(key)); exists {
			found[key] = value
		}
	}
	return found, nil
}
