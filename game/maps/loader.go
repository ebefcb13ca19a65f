package maps

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

// DescriptionMeta is the metadata key a file's description is stored under
const DescriptionMeta = "description"

// Extensions lists the supported map file extensions, in lookup order
var Extensions = []string{".json", ".hcl"}

// MapFile is the JSON form of a map file. Either Terrain (one key per cell,
// as written by SaveMap) or Layout (one string per row) must be set.
type MapFile struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Layout      []string                `json:"layout,omitempty"`
	Terrain     [][]terrain.TerrainType `json:"terrain,omitempty"`
	Metadata    map[string]string       `json:"metadata,omitempty"`
}

// hclMapFile is the HCL form of a map file:
//
//	name        = "Harbor"
//	description = "A small port town"
//	layout      = ["~~~", "~#~"]
//	metadata    = { start = "1,1" }
type hclMapFile struct {
	Name        string            `hcl:"name"`
	Description string            `hcl:"description,optional"`
	Layout      []string          `hcl:"layout"`
	Metadata    map[string]string `hcl:"metadata,optional"`
}

// IsMapFile reports whether name has a supported extension
func IsMapFile(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads a .json or .hcl map file
func LoadFile(path string) (*terrain.Map, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read map file: %w", err)
		}
		return ParseJSON(data)
	case ".hcl":
		return ParseHCLFile(path)
	default:
		return nil, fmt.Errorf("%w: unsupported map file %s", ErrInvalidMap, path)
	}
}

// ParseJSON decodes a JSON map file
func ParseJSON(data []byte) (*terrain.Map, error) {
	var file MapFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: failed to parse map: %v", ErrInvalidMap, err)
	}
	return file.build()
}

// ParseHCLFile decodes an HCL map file
func ParseHCLFile(path string) (*terrain.Map, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", ErrInvalidMap, path, diags)
	}

	var parsed hclMapFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", ErrInvalidMap, path, diags)
	}

	file := MapFile{
		Name:        parsed.Name,
		Description: parsed.Description,
		Layout:      parsed.Layout,
		Metadata:    parsed.Metadata,
	}
	return file.build()
}

func (f MapFile) build() (*terrain.Map, error) {
	rows := f.Terrain
	if rows == nil {
		parsed, err := terrain.ParseLayout(f.Layout)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
		}
		rows = parsed
	}

	metadata := make(map[string]string, len(f.Metadata)+1)
	for k, v := range f.Metadata {
		metadata[k] = v
	}
	if f.Description != "" {
		metadata[DescriptionMeta] = f.Description
	}

	m, err := terrain.New(f.Name, rows, metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	return m, nil
}
