// Command stratad is a demonstration harness for the strata resolution
// pipeline: it declares a schema, layers a config file under environment
// variables under command-line flags, and prints the validated view. A
// missing mandatory field is a fatal startup error with a non-zero exit.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/strata-config/strata"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	schema := strata.MustSchema("stratad",
		strata.Mandatory("config_file", strata.KindString).
			WithDefault(strata.StringValue("stratad.toml")),
		strata.Mandatory("phone_number", strata.KindString),
		strata.Optional("name", strata.KindString),
		strata.Mandatory("port", strata.KindInt).
			WithDefault(strata.IntValue(8080)),
		strata.Optional("rate", strata.KindFloat),
		strata.Optional("verbose", strata.KindBool),
	)

	flags := pflag.NewFlagSet("stratad", pflag.ContinueOnError)
	flags.String("config_file", "stratad.toml", "path to the configuration file")
	flags.String("phone_number", "", "contact phone number")
	flags.String("name", "", "display name")
	flags.Int("port", 8080, "listen port")
	flags.Float64("rate", 0, "sampling rate")
	flags.Bool("verbose", false, "enable verbose output")
	if err := flags.Parse(os.Args[1:]); err != nil {
		logger.Fatal("failed to parse arguments", zap.Error(err))
	}

	// The file path itself is a setting: the flag (or its default) decides
	// which file becomes the lowest layer.
	configFile, _ := flags.GetString("config_file")

	settings, err := strata.NewBuilder(schema).
		WithFile(configFile).
		WithEnv("STRATAD_").
		WithFlagSet(flags).
		Build(context.Background())
	if err != nil {
		logger.Fatal("settings resolution failed", zap.Error(err))
	}

	logger.Info("settings resolved",
		zap.String("config_file", settings.String("config_file")),
		zap.String("config_file_from", settings.Provenance("config_file")),
		zap.String("phone_number", settings.String("phone_number")),
		zap.Int64("port", settings.Int64("port")),
	)

	if name, ok := settings.StringOpt("name"); ok {
		logger.Info("resolved optional name", zap.String("name", name))
	}
	if rate, ok := settings.Float64Opt("rate"); ok {
		logger.Info("resolved optional rate", zap.Float64("rate", rate))
	}
	if verbose, ok := settings.BoolOpt("verbose"); ok && verbose {
		fmt.Print(settings.Debug())
	}
}
