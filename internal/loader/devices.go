// Package loader reads Device42 device exports from disk.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"d42inventory/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileSource serves device records from a saved API response, either the
// {"Devices": [...]} envelope or a bare list, as JSON or YAML.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path on every fetch
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchAllDevices reads and parses the file
func (s *FileSource) FetchAllDevices(ctx context.Context) ([]domain.DeviceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadDevices(s.path)
}

// LoadDevices reads device records from path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func LoadDevices(path string) ([]domain.DeviceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON parses an envelope or a bare list of device records
func ParseJSON(data []byte) ([]domain.DeviceRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty device file")
	}

	if trimmed[0] == '[' {
		var devices []domain.DeviceRecord
		if err := json.Unmarshal(trimmed, &devices); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return devices, nil
	}

	var list domain.DeviceList
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return list.Devices, nil
}

// ParseYAML parses the YAML form of an export. The document is converted to
// JSON first so custom-field values get the same types as API responses.
func ParseYAML(data []byte) ([]domain.DeviceRecord, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty device file")
	}

	converted, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML: %w", err)
	}
	return ParseJSON(converted)
}
