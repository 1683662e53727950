package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"d42inventory/internal/inventory"
)

// JSONCodec handles the dynamic inventory JSON consumed by Ansible
type JSONCodec struct {
	indent int
}

// NewJSONCodec creates a new JSON codec. indent 0 writes compact JSON.
func NewJSONCodec(indent int) *JSONCodec {
	return &JSONCodec{indent: indent}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export exports the inventory to JSON
func (c *JSONCodec) Export(doc *inventory.Document, w io.Writer) error {
	if doc == nil {
		doc = inventory.NewDocument()
	}
	if err := c.encoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportHost exports one host's variables to JSON
func (c *JSONCodec) ExportHost(vars *inventory.HostVars, w io.Writer) error {
	var v any = struct{}{}
	if vars != nil {
		v = vars
	}
	if err := c.encoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (c *JSONCodec) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if c.indent > 0 {
		encoder.SetIndent("", strings.Repeat(" ", c.indent))
	}
	return encoder
}
