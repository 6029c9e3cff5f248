// File: strata/source_test.go
package strata_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-config/strata"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	t.Run("TOML", func(t *testing.T) {
		path := writeTempFile(t, "app.toml", `
phone_number = "555-4321"

[server]
port = 8080
`)
		values, err := strata.NewFileSource(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "555-4321", values["phone_number"])
		assert.Equal(t, int64(8080), values["server.port"]) // nested tables flatten
	})

	t.Run("YAML", func(t *testing.T) {
		path := writeTempFile(t, "app.yaml", "phone_number: \"555-4321\"\nname: Jack\n")
		values, err := strata.NewFileSource(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "555-4321", values["phone_number"])
		assert.Equal(t, "Jack", values["name"])
	})

	t.Run("JSON", func(t *testing.T) {
		path := writeTempFile(t, "app.json", `{"port": 9090, "name": "Jack"}`)
		values, err := strata.NewFileSource(path).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jack", values["name"])
		// json numbers arrive as json.Number and coerce at deserialize time
		v, err := strata.Coerce(values["port"], strata.KindInt)
		require.NoError(t, err)
		assert.Equal(t, int64(9090), v.Int64())
	})

	t.Run("Optional Missing File Supplies Nothing", func(t *testing.T) {
		src := strata.NewFileSource(filepath.Join(t.TempDir(), "absent.toml"))
		values, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("Required Missing File Is Unavailable", func(t *testing.T) {
		src := strata.NewRequiredFileSource(filepath.Join(t.TempDir(), "absent.toml"))
		_, err := src.Load(ctx)
		assert.ErrorIs(t, err, strata.ErrSourceUnavailable)
	})

	t.Run("Malformed File Is Fatal Even When Optional", func(t *testing.T) {
		path := writeTempFile(t, "app.toml", "== not toml ==")
		_, err := strata.NewFileSource(path).Load(ctx)
		assert.Error(t, err)
	})

	t.Run("Explicit Format Without Extension", func(t *testing.T) {
		path := writeTempFile(t, "app.conf", "phone_number = \"555-4321\"\n")
		values, err := strata.NewFileSourceAs(path, strata.FormatTOML).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "555-4321", values["phone_number"])
	})

	t.Run("Content Source", func(t *testing.T) {
		src := strata.NewContentSource([]byte(`{"name": "embedded"}`), strata.FormatJSON)
		values, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "embedded", values["name"])
	})
}

func TestEnvSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Default Transform", func(t *testing.T) {
		t.Setenv("MYAPP_PHONE_NUMBER", "555-7890")
		t.Setenv("MYAPP_SERVER_PORT", "9090")

		src := strata.NewEnvSource("MYAPP_", "phone_number", "server.port", "name")
		values, err := src.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "555-7890", values["phone_number"])
		assert.Equal(t, "9090", values["server.port"])
		_, present := values["name"]
		assert.False(t, present, "absent variables supply no value")
	})

	t.Run("Custom Transform", func(t *testing.T) {
		t.Setenv("CFG-NAME", "Jack")

		src := strata.NewEnvSource("", "name").WithTransform(func(name string) string {
			return "CFG-" + strings.ToUpper(name)
		})
		values, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jack", values["name"])
	})

	t.Run("Schema Scoped", func(t *testing.T) {
		t.Setenv("APP_NAME", "Jill")
		schema := strata.MustSchema("app", strata.Optional("name", strata.KindString))

		values, err := strata.NewEnvSourceFor(schema, "APP_").Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jill", values["name"])
	})
}

func TestFlagSource(t *testing.T) {
	ctx := context.Background()

	newFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("phone_number", "", "")
		fs.Int("port", 8080, "")
		fs.Float64("rate", 0, "")
		fs.Bool("verbose", false, "")
		return fs
	}

	t.Run("Only Changed Flags Supply Values", func(t *testing.T) {
		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--phone_number", "555-1234", "--verbose"}))

		values, err := strata.NewFlagSource(fs).Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "555-1234", values["phone_number"])
		assert.Equal(t, true, values["verbose"])
		_, present := values["port"]
		assert.False(t, present, "flag defaults must not shadow lower layers")
	})

	t.Run("Values Keep Parsed Types", func(t *testing.T) {
		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--port=9090", "--rate=0.5"}))

		values, err := strata.NewFlagSource(fs).Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(9090), values["port"])
		assert.Equal(t, 0.5, values["rate"])
	})

	t.Run("Unparsed Flag Set Is Unavailable", func(t *testing.T) {
		_, err := strata.NewFlagSource(newFlags()).Load(ctx)
		assert.ErrorIs(t, err, strata.ErrSourceUnavailable)
	})
}

func TestArgsSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Grammar Variants", func(t *testing.T) {
		values, err := strata.NewArgsSource([]string{
			"positional",
			"--phone_number=555-1234",
			"--name", "Jack",
			"--verbose",
		}).Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "555-1234", values["phone_number"])
		assert.Equal(t, "Jack", values["name"])
		assert.Equal(t, "true", values["verbose"])
	})

	t.Run("Invalid Key Rejected", func(t *testing.T) {
		_, err := strata.NewArgsSource([]string{"--bad key=1"}).Load(ctx)
		assert.Error(t, err)
	})

	t.Run("Separator Skipped", func(t *testing.T) {
		values, err := strata.NewArgsSource([]string{"--", "--name", "Jack"}).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jack", values["name"])
	})
}
