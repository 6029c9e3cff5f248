// File: strata/flags.go
package strata

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// FlagSource adapts an already-parsed pflag.FlagSet. The flag grammar
// (syntax, help text, shorthands) stays with the caller; the source only
// reads back what the grammar recognized. Only flags the user actually set
// supply values (pflag's Changed), so flag defaults never shadow lower
// layers; values keep the flag's own parsed type rather than re-parsed
// text.
type FlagSource struct {
	fs *pflag.FlagSet
}

// NewFlagSource wraps a parsed flag set. Parse must have been called;
// Load fails otherwise.
func NewFlagSource(fs *pflag.FlagSet) *FlagSource {
	return &FlagSource{fs: fs}
}

// Name implements Source.
func (f *FlagSource) Name() string { return SourceFlags }

// Load implements Source.
func (f *FlagSource) Load(context.Context) (map[string]any, error) {
	if f.fs == nil {
		return nil, fmt.Errorf("%w: nil flag set", ErrSourceUnavailable)
	}
	if !f.fs.Parsed() {
		return nil, fmt.Errorf("%w: flag set %q has not been parsed", ErrSourceUnavailable, f.fs.Name())
	}

	values := make(map[string]any)
	var firstErr error
	f.fs.Visit(func(flag *pflag.Flag) {
		v, err := typedFlagValue(f.fs, flag)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flag --%s: %w", flag.Name, err)
			return
		}
		values[flag.Name] = v
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return values, nil
}

// typedFlagValue extracts a flag's value in its native parsed type.
func typedFlagValue(fs *pflag.FlagSet, flag *pflag.Flag) (any, error) {
	switch flag.Value.Type() {
	case "bool":
		return fs.GetBool(flag.Name)
	case "int":
		v, err := fs.GetInt(flag.Name)
		return int64(v), err
	case "int64":
		return fs.GetInt64(flag.Name)
	case "float64":
		return fs.GetFloat64(flag.Name)
	case "string":
		return fs.GetString(flag.Name)
	default:
		// Other flag types degrade to their string rendering; coercion
		// against the declared kind happens at deserialization.
		return flag.Value.String(), nil
	}
}

// ArgsSource is a minimal raw-argument layer for callers without a flag
// set. It understands "--key=value", "--key value", and bare "--key"
// boolean flags; everything stays a string (bare flags become "true") and
// coerces against the declared kind later. Non-flag arguments are skipped.
type ArgsSource struct {
	args []string
}

// NewArgsSource wraps a raw argument slice (typically os.Args[1:]).
func NewArgsSource(args []string) *ArgsSource {
	return &ArgsSource{args: args}
}

// Name implements Source.
func (a *ArgsSource) Name() string { return SourceArgs }

// Load implements Source.
func (a *ArgsSource) Load(context.Context) (map[string]any, error) {
	values := make(map[string]any)

	i := 0
	for i < len(a.args) {
		arg := a.args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		content := strings.TrimPrefix(arg, "--")
		if content == "" {
			// "--" separator
			i++
			continue
		}

		var key, value string
		if eq := strings.Index(content, "="); eq >= 0 {
			key = content[:eq]
			value = content[eq+1:]
			i++
		} else {
			key = content
			if i+1 >= len(a.args) || strings.HasPrefix(a.args[i+1], "--") {
				value = "true"
				i++
			} else {
				value = a.args[i+1]
				i += 2
			}
		}

		if key == "" {
			continue
		}
		for _, segment := range strings.Split(key, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid argument key segment %q in %q", segment, key)
			}
		}
		values[key] = value
	}

	return values, nil
}
