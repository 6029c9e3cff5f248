// File: strata/file.go
package strata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a configuration file format.
type Format string

const (
	FormatAuto Format = ""
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FileSource loads values from a TOML, JSON, or YAML file. Nested tables
// are flattened to dotted identifiers, so `[server] port = 1` supplies
// "server.port".
//
// An optional file source treats a missing file as supplying no values
// (the common deployment: the file is one layer among several). A required
// file source turns a missing file into ErrSourceUnavailable. A file that
// exists but cannot be read or parsed is fatal either way.
type FileSource struct {
	path     string
	content  []byte
	format   Format
	optional bool
}

// NewFileSource creates an optional-if-missing file source with format
// detection from the extension, falling back to content sniffing.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, optional: true}
}

// NewRequiredFileSource is like NewFileSource but a missing file aborts
// resolution with ErrSourceUnavailable.
func NewRequiredFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// NewFileSourceAs creates an optional file source with an explicit format,
// for files without a telling extension.
func NewFileSourceAs(path string, format Format) *FileSource {
	return &FileSource{path: path, format: format, optional: true}
}

// NewContentSource creates a source over an in-memory document, e.g.
// embedded defaults or test fixtures.
func NewContentSource(content []byte, format Format) *FileSource {
	return &FileSource{content: content, format: format}
}

// Name implements Source.
func (f *FileSource) Name() string { return SourceFile }

// Load implements Source.
func (f *FileSource) Load(context.Context) (map[string]any, error) {
	data := f.content
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				if f.optional {
					return map[string]any{}, nil
				}
				return nil, fmt.Errorf("%w: config file '%s' not found", ErrSourceUnavailable, f.path)
			}
			return nil, fmt.Errorf("%w: reading config file '%s': %v", ErrSourceUnavailable, f.path, err)
		}
	}

	format := f.format
	if format == FormatAuto {
		format = detectFileFormat(f.path)
		if format == FormatAuto {
			format = detectFormatFromContent(data)
		}
		if format == FormatAuto {
			return nil, fmt.Errorf("unable to determine config format for '%s'", f.path)
		}
	}

	parsed := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config '%s': %w", f.path, err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config '%s': %w", f.path, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config '%s': %w", f.path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	return flattenMap(parsed, ""), nil
}

// detectFileFormat determines format from the file extension.
func detectFileFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// detectFormatFromContent attempts to detect format by parsing. JSON is
// strictest, YAML is a superset of JSON, TOML goes last.
func detectFormatFromContent(data []byte) Format {
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return FormatAuto
}
