// File: strata/doc.go

// Package strata resolves application settings from layered sources (a
// configuration file, environment variables, command-line arguments) and
// validates that every mandatory field is present before handing the
// application a finalized, read-only view.
//
// Features:
//   - Multiple sources with deterministic last-wins precedence
//   - Declared schema: identifier, scalar kind, mandatory/optional, default
//   - TOML, JSON, and YAML configuration files with format auto-detection
//   - Environment variable mapping with a replaceable name transform
//   - Argument source backed by an already-parsed pflag.FlagSet
//   - Guaranteed-present accessors for mandatory fields after validation
//   - Builder pattern for easy initialization
//   - Provenance tracking to see where each value originated
//
// Quick Start:
//
//	schema := strata.MustSchema("app",
//	    strata.Mandatory("phone_number", strata.KindString),
//	    strata.Optional("name", strata.KindString),
//	    strata.Mandatory("config_file", strata.KindString).WithDefault(strata.StringValue("app.yaml")),
//	)
//
//	settings, err := strata.NewBuilder(schema).
//	    WithFile("app.yaml").
//	    WithEnv("MYAPP_").
//	    WithArgs(os.Args[1:]).
//	    Build(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	phone := settings.String("phone_number") // mandatory: bare value
//	name, ok := settings.StringOpt("name")   // optional: absent-able
//
// Precedence (lowest to highest): defaults, file, environment, arguments.
// The generic Resolve entry point accepts any caller-supplied source order;
// whichever source supplies a key last wins.
//
// Resolution is a one-shot pipeline run once at startup. Validation fails
// fast: the first mandatory field missing in declaration order is the one
// reported; a collect-all policy is deliberately not offered, so the error
// payload always carries a single field. The validated view is immutable
// and safe for unsynchronized concurrent reads. Re-resolving means running
// a fresh pass that produces a new view; an existing view never changes.
package strata
