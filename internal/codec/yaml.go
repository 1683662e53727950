package codec

import (
	"fmt"
	"io"

	"d42inventory/internal/inventory"

	"gopkg.in/yaml.v3"
)

// YAMLCodec renders the dynamic inventory tree as YAML, same shape as JSON
type YAMLCodec struct {
	indent int
}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec(indent int) *YAMLCodec {
	return &YAMLCodec{indent: indent}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export exports the inventory to YAML
func (c *YAMLCodec) Export(doc *inventory.Document, w io.Writer) error {
	if doc == nil {
		doc = inventory.NewDocument()
	}
	return encodeYAML(w, c.indent, doc.Tree())
}

// ExportHost exports one host's variables to YAML
func (c *YAMLCodec) ExportHost(vars *inventory.HostVars, w io.Writer) error {
	var v any = map[string]any{}
	if vars != nil {
		v = vars
	}
	return encodeYAML(w, c.indent, v)
}

func encodeYAML(w io.Writer, indent int, v any) error {
	encoder := yaml.NewEncoder(w)
	if indent >= 2 {
		encoder.SetIndent(indent)
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
