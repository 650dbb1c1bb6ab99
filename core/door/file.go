package door

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"doorcost/core/engine"
	doorerrors "doorcost/internal/errors"
)

// File is the YAML shape of a multi-door quote request
type File struct {
	Doors []Door `yaml:"doors"`
}

type hclFile struct {
	Doors []hclDoor `hcl:"door,block"`
}

type hclDoor struct {
	ID      string         `hcl:"id,label"`
	Product string         `hcl:"product"`
	Width   float64        `hcl:"width"`
	Height  float64        `hcl:"height"`
	Options []string       `hcl:"options,optional"`
	Counts  hcl.Expression `hcl:"counts,optional"`
	Region  string         `hcl:"region,optional"`
}

// LoadFile reads doors from a .yaml, .yml or .hcl file
func LoadFile(path string) ([]Door, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, doorerrors.Wrap(doorerrors.TypeInput, "failed to read doors file", err).
			WithContext("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(src)
	case ".hcl":
		return ParseHCL(src, path)
	default:
		return nil, doorerrors.Newf(doorerrors.TypeInput,
			"unsupported doors file extension %q (want .yaml, .yml or .hcl)", filepath.Ext(path))
	}
}

// ParseYAML decodes a doors document
func ParseYAML(src []byte) ([]Door, error) {
	var f File
	if err := yaml.Unmarshal(src, &f); err != nil {
		return nil, doorerrors.Wrap(doorerrors.TypeParsing, "invalid doors YAML", err)
	}
	return f.Doors, nil
}

// ParseHCL decodes door blocks. Counts are read as an object whose key
// order is kept, since it decides the order of counted lines.
func ParseHCL(src []byte, filename string) ([]Door, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, doorerrors.Wrap(doorerrors.TypeParsing, "invalid doors HCL", diags).
			WithContext("file", filename)
	}

	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, doorerrors.Wrap(doorerrors.TypeParsing, "invalid doors HCL", diags).
			WithContext("file", filename)
	}

	doors := make([]Door, 0, len(f.Doors))
	for _, hd := range f.Doors {
		counts, err := decodeCounts(hd.Counts)
		if err != nil {
			return nil, doorerrors.Wrapf(doorerrors.TypeParsing, err, "door %q: invalid counts", hd.ID).
				WithContext("file", filename)
		}
		doors = append(doors, Door{
			ID: hd.ID,
			Config: engine.Configuration{
				Product: hd.Product,
				Width:   hd.Width,
				Height:  hd.Height,
				Options: hd.Options,
				Counts:  counts,
				Region:  hd.Region,
			},
		})
	}
	return doors, nil
}

func decodeCounts(expr hcl.Expression) (engine.Quantities, error) {
	var counts engine.Quantities
	if expr == nil {
		return counts, nil
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
		return counts, nil
	}

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return counts, diags
	}
	for _, pair := range pairs {
		var id string
		if diags := gohcl.DecodeExpression(pair.Key, nil, &id); diags.HasErrors() {
			return counts, diags
		}
		var n int
		if diags := gohcl.DecodeExpression(pair.Value, nil, &n); diags.HasErrors() {
			return counts, fmt.Errorf("%q: %w", id, diags)
		}
		counts.Set(id, n)
	}
	return counts, nil
}
