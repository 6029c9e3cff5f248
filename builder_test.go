// File: strata/builder_test.go
package strata_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-config/strata"
)

func TestBuilder(t *testing.T) {
	ctx := context.Background()

	t.Run("Layered Precedence File Env Flags", func(t *testing.T) {
		path := writeTempFile(t, "app.toml", `
phone_number = "555-4321"
name = "Jack"
port = 7070
`)
		t.Setenv("MYAPP_PORT", "8080")

		fs := pflag.NewFlagSet("app", pflag.ContinueOnError)
		fs.String("phone_number", "", "")
		fs.Int("port", 0, "")
		require.NoError(t, fs.Parse([]string{"--phone_number", "555-1234"}))

		schema := strata.MustSchema("app",
			strata.Mandatory("phone_number", strata.KindString),
			strata.Optional("name", strata.KindString),
			strata.Mandatory("port", strata.KindInt),
		)

		settings, err := strata.NewBuilder(schema).
			WithFile(path).
			WithEnv("MYAPP_").
			WithFlagSet(fs).
			Build(ctx)
		require.NoError(t, err)

		// flags beat env, env beats file, file supplies the rest
		assert.Equal(t, "555-1234", settings.String("phone_number"))
		assert.Equal(t, int64(8080), settings.Int64("port"))
		name, ok := settings.StringOpt("name")
		require.True(t, ok)
		assert.Equal(t, "Jack", name)

		assert.Equal(t, strata.SourceFlags, settings.Provenance("phone_number"))
		assert.Equal(t, strata.SourceEnv, settings.Provenance("port"))
		assert.Equal(t, strata.SourceFile, settings.Provenance("name"))
	})

	t.Run("Env Only Supplies Mandatory Field", func(t *testing.T) {
		t.Setenv("MYAPP_PHONE_NUMBER", "555-7890")

		schema := strata.MustSchema("app",
			strata.Mandatory("phone_number", strata.KindString),
		)

		settings, err := strata.NewBuilder(schema).
			WithFile(filepath.Join(t.TempDir(), "absent.toml")).
			WithEnv("MYAPP_").
			Build(ctx)
		require.NoError(t, err)
		assert.Equal(t, "555-7890", settings.String("phone_number"))
	})

	t.Run("Missing Mandatory Is Terminal", func(t *testing.T) {
		schema := strata.MustSchema("app",
			strata.Mandatory("phone_number", strata.KindString),
		)

		_, err := strata.NewBuilder(schema).
			WithFile(filepath.Join(t.TempDir(), "absent.toml")).
			Build(ctx)

		var missing *strata.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "phone_number", missing.Field)
	})

	t.Run("Required File Missing Aborts", func(t *testing.T) {
		schema := strata.MustSchema("app", strata.Optional("x", strata.KindString))

		_, err := strata.NewBuilder(schema).
			WithRequiredFile(filepath.Join(t.TempDir(), "absent.toml")).
			Build(ctx)
		assert.ErrorIs(t, err, strata.ErrSourceUnavailable)
	})

	t.Run("Custom Source Is Highest Layer", func(t *testing.T) {
		path := writeTempFile(t, "app.toml", "name = \"from-file\"\n")
		schema := strata.MustSchema("app", strata.Optional("name", strata.KindString))

		settings, err := strata.NewBuilder(schema).
			WithFile(path).
			WithSource(strata.NewStaticSource("override", map[string]any{"name": "injected"})).
			Build(ctx)
		require.NoError(t, err)

		name, _ := settings.StringOpt("name")
		assert.Equal(t, "injected", name)
		assert.Equal(t, "override", settings.Provenance("name"))
	})

	t.Run("Post Validation Hook Can Reject", func(t *testing.T) {
		schema := strata.MustSchema("app",
			strata.Mandatory("port", strata.KindInt).WithDefault(strata.IntValue(70)),
		)

		_, err := strata.NewBuilder(schema).
			WithValidator(func(s *strata.ValidatedSettings) error {
				if s.Int64("port") < 1024 {
					return fmt.Errorf("port %d is privileged", s.Int64("port"))
				}
				return nil
			}).
			Build(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "privileged")
	})

	t.Run("Flag Set And Raw Args Are Exclusive", func(t *testing.T) {
		schema := strata.MustSchema("app", strata.Optional("x", strata.KindString))
		fs := pflag.NewFlagSet("app", pflag.ContinueOnError)
		require.NoError(t, fs.Parse(nil))

		_, err := strata.NewBuilder(schema).
			WithFlagSet(fs).
			WithArgs([]string{"--x=1"}).
			Build(ctx)
		assert.Error(t, err)
	})

	t.Run("Nil Schema Rejected", func(t *testing.T) {
		_, err := strata.NewBuilder(nil).Build(ctx)
		assert.Error(t, err)
	})

	t.Run("MustBuild Panics On Failure", func(t *testing.T) {
		schema := strata.MustSchema("app", strata.Mandatory("x", strata.KindString))
		assert.Panics(t, func() {
			strata.NewBuilder(schema).MustBuild(ctx)
		})
	})
}

func TestQuick(t *testing.T) {
	path := writeTempFile(t, "app.toml", "phone_number = \"555-4321\"\n")
	t.Setenv("QUICK_NAME", "Jack")

	schema := strata.MustSchema("app",
		strata.Mandatory("phone_number", strata.KindString),
		strata.Optional("name", strata.KindString),
		strata.Optional("verbose", strata.KindBool),
	)

	settings, err := strata.Quick(context.Background(), schema, "QUICK_", path, []string{"--verbose"})
	require.NoError(t, err)

	assert.Equal(t, "555-4321", settings.String("phone_number"))
	name, _ := settings.StringOpt("name")
	assert.Equal(t, "Jack", name)
	verbose, ok := settings.BoolOpt("verbose")
	require.True(t, ok)
	assert.True(t, verbose)
}

func TestFileDiscovery(t *testing.T) {
	t.Run("CLI Flag Wins", func(t *testing.T) {
		opts := strata.DefaultDiscoveryOptions("myapp")
		path := strata.DiscoverFile(opts, []string{"--config", "/tmp/explicit.toml"})
		assert.Equal(t, "/tmp/explicit.toml", path)

		path = strata.DiscoverFile(opts, []string{"--config=/tmp/eq.toml"})
		assert.Equal(t, "/tmp/eq.toml", path)
	})

	t.Run("Env Var Next", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/tmp/from-env.toml")
		opts := strata.DefaultDiscoveryOptions("myapp")
		assert.Equal(t, "/tmp/from-env.toml", strata.DiscoverFile(opts, nil))
	})

	t.Run("Search Paths", func(t *testing.T) {
		dir := t.TempDir()
		found := writeTempFileIn(t, dir, "myapp.yaml", "name: Jack\n")

		opts := strata.FileDiscoveryOptions{
			Name:       "myapp",
			Extensions: []string{".toml", ".yaml"},
			Paths:      []string{dir},
		}
		assert.Equal(t, found, strata.DiscoverFile(opts, nil))
	})

	t.Run("Nothing Found Is Not An Error", func(t *testing.T) {
		opts := strata.FileDiscoveryOptions{
			Name:       "ghost",
			Extensions: []string{".toml"},
			Paths:      []string{t.TempDir()},
		}
		assert.Equal(t, "", strata.DiscoverFile(opts, nil))

		schema := strata.MustSchema("app", strata.Optional("x", strata.KindString))
		settings, err := strata.NewBuilder(schema).
			WithFileDiscovery(opts, nil).
			Build(context.Background())
		require.NoError(t, err)
		_, ok := settings.StringOpt("x")
		assert.False(t, ok)
	})
}

func writeTempFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
