package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a seed file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// SeedFile is the top-level structure of a task seed file.
type SeedFile struct {
	Tasks []TaskImport `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// TaskImport is one task record. Dates are YYYY-MM-DD strings. Title is
// accepted as an alias of Name, and DueDate alone describes a one-day task.
type TaskImport struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	StartDate   string `json:"start_date,omitempty" yaml:"start_date,omitempty" toml:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty" yaml:"end_date,omitempty" toml:"end_date,omitempty"`
	DueDate     string `json:"due_date,omitempty" yaml:"due_date,omitempty" toml:"due_date,omitempty"`
	Progress    *int   `json:"progress,omitempty" yaml:"progress,omitempty" toml:"progress,omitempty"`
	Assignee    string `json:"assignee,omitempty" yaml:"assignee,omitempty" toml:"assignee,omitempty"`
	Priority    string `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Project     string `json:"project,omitempty" yaml:"project,omitempty" toml:"project,omitempty"`
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported seed file extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Parse decodes seed data in the given format.
func Parse(data []byte, format Format) (*SeedFile, error) {
	var seed SeedFile
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &seed)
	case FormatYAML:
		err = yaml.Unmarshal(data, &seed)
	case FormatTOML:
		err = toml.Unmarshal(data, &seed)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s seed: %w", format, err)
	}
	return &seed, nil
}

// ReadFile reads and parses a seed file from disk.
func ReadFile(path string) (*SeedFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data, format)
}
