// Package codec serializes task lists for the persistence service.
// A list is an ordered sequence of records; order is preserved in every
// format.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"
)

// Format names a serialization format.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnsupported is returned for unknown format names.
var ErrUnsupported = errors.New("unsupported format")

// Formats lists the supported format names in display order.
func Formats() []string {
	return []string{string(JSON), string(YAML), string(TOML)}
}

// Parse converts a format name (case-insensitive) to a Format.
// An empty name selects JSON.
func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return JSON, nil
	case JSON, YAML, TOML:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnsupported, name, strings.Join(Formats(), ", "))
	}
}

// tomlDoc wraps a list because TOML documents cannot be top-level arrays.
type tomlDoc[T any] struct {
	Tasks []T `toml:"tasks"`
}

// Encode serializes records in the given format. A nil slice encodes as an
// empty list, never as null.
func Encode[T any](f Format, records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	switch f {
	case JSON, "":
		data, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return data, nil
	case YAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tomlDoc[T]{Tasks: records}); err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupported, f)
	}
}

// Decode parses records in the given format. Empty input decodes to an
// empty list.
func Decode[T any](f Format, data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	switch f {
	case JSON, "":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case TOML:
		var doc tomlDoc[T]
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		records = doc.Tasks
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupported, f)
	}

	if records == nil {
		records = []T{}
	}
	return records, nil
}
