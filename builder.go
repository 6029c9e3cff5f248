// File: strata/builder.go
package strata

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
)

// ValidatorFunc is a post-validation hook. It receives the validated view
// and can reject it for application-level reasons (ranges, cross-field
// rules) that presence validation does not cover.
type ValidatorFunc func(*ValidatedSettings) error

// Builder assembles the standard resolution pipeline. Sources are layered
// lowest to highest priority: declared defaults, then the file, then the
// environment, then arguments, then any custom sources in the order they
// were added. For full control over source order use Resolve directly.
type Builder struct {
	schema *Schema

	filePath     string
	fileFormat   Format
	fileRequired bool
	hasFile      bool

	envPrefix    string
	envTransform EnvTransformFunc
	hasEnv       bool

	flagSet *pflag.FlagSet
	args    []string
	hasArgs bool

	extra      []Source
	validators []ValidatorFunc
	err        error
}

// NewBuilder creates a builder for the given schema.
func NewBuilder(schema *Schema) *Builder {
	b := &Builder{schema: schema}
	if schema == nil {
		b.err = fmt.Errorf("builder requires a schema")
	}
	return b
}

// WithFile adds an optional-if-missing configuration file layer. A missing
// file supplies no values; a malformed one aborts resolution.
func (b *Builder) WithFile(path string) *Builder {
	b.filePath = path
	b.fileFormat = FormatAuto
	b.fileRequired = false
	b.hasFile = path != ""
	return b
}

// WithRequiredFile adds a configuration file layer whose absence aborts
// resolution with ErrSourceUnavailable.
func (b *Builder) WithRequiredFile(path string) *Builder {
	b.WithFile(path)
	b.fileRequired = true
	return b
}

// WithFileAs is WithFile with an explicit format, for files whose
// extension does not identify one.
func (b *Builder) WithFileAs(path string, format Format) *Builder {
	b.WithFile(path)
	b.fileFormat = format
	return b
}

// WithEnv adds an environment variable layer probing every declared field
// through the default transform with the given prefix.
func (b *Builder) WithEnv(prefix string) *Builder {
	b.envPrefix = prefix
	b.hasEnv = true
	return b
}

// WithEnvTransform replaces the identifier→variable mapping of the
// environment layer (and implies WithEnv).
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.envTransform = fn
	b.hasEnv = true
	return b
}

// WithFlagSet adds an argument layer backed by an already-parsed
// pflag.FlagSet. Mutually exclusive with WithArgs.
func (b *Builder) WithFlagSet(fs *pflag.FlagSet) *Builder {
	if b.hasArgs && b.err == nil {
		b.err = fmt.Errorf("WithFlagSet and WithArgs are mutually exclusive")
	}
	b.flagSet = fs
	b.hasArgs = fs != nil
	return b
}

// WithArgs adds an argument layer over a raw argument slice (typically
// os.Args[1:]) using the built-in "--key value" grammar. Mutually
// exclusive with WithFlagSet.
func (b *Builder) WithArgs(args []string) *Builder {
	if b.flagSet != nil && b.err == nil {
		b.err = fmt.Errorf("WithFlagSet and WithArgs are mutually exclusive")
	}
	b.args = args
	b.hasArgs = len(args) > 0
	return b
}

// WithSource appends a custom source above the standard layers. Multiple
// custom sources stack in the order added, later ones higher.
func (b *Builder) WithSource(src Source) *Builder {
	if src == nil {
		if b.err == nil {
			b.err = fmt.Errorf("source cannot be nil")
		}
		return b
	}
	b.extra = append(b.extra, src)
	return b
}

// WithValidator adds a post-validation hook. Hooks run in the order added,
// after presence validation succeeds.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build runs the pipeline: assemble sources, resolve, validate presence,
// run hooks. On any failure no validated view is produced.
func (b *Builder) Build(ctx context.Context) (*ValidatedSettings, error) {
	if b.err != nil {
		return nil, b.err
	}

	sources := make([]Source, 0, 3+len(b.extra))

	if b.hasFile {
		var fs *FileSource
		switch {
		case b.fileFormat != FormatAuto:
			fs = NewFileSourceAs(b.filePath, b.fileFormat)
			if b.fileRequired {
				fs.optional = false
			}
		case b.fileRequired:
			fs = NewRequiredFileSource(b.filePath)
		default:
			fs = NewFileSource(b.filePath)
		}
		sources = append(sources, fs)
	}

	if b.hasEnv {
		env := NewEnvSourceFor(b.schema, b.envPrefix)
		if b.envTransform != nil {
			env.WithTransform(b.envTransform)
		}
		sources = append(sources, env)
	}

	if b.hasArgs {
		if b.flagSet != nil {
			sources = append(sources, NewFlagSource(b.flagSet))
		} else {
			sources = append(sources, NewArgsSource(b.args))
		}
	}

	sources = append(sources, b.extra...)

	raw, err := Resolve(ctx, b.schema, sources...)
	if err != nil {
		return nil, err
	}

	settings, err := b.schema.Validate(raw)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(settings); err != nil {
			return nil, fmt.Errorf("settings validation failed: %w", err)
		}
	}

	return settings, nil
}

// MustBuild is like Build but panics on error. Intended for main(), where
// a resolution failure is a fatal startup error anyway.
func (b *Builder) MustBuild(ctx context.Context) *ValidatedSettings {
	settings, err := b.Build(ctx)
	if err != nil {
		panic(fmt.Sprintf("strata: settings resolution failed: %v", err))
	}
	return settings
}

// Quick resolves a schema with the conventional deployment layering in a
// single call: optional config file, environment variables with the given
// prefix, and raw command-line arguments, in that priority order.
func Quick(ctx context.Context, schema *Schema, envPrefix, configFile string, args []string) (*ValidatedSettings, error) {
	return NewBuilder(schema).
		WithFile(configFile).
		WithEnv(envPrefix).
		WithArgs(args).
		Build(ctx)
}
