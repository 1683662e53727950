// Package codec renders inventory documents for Ansible and for humans.
package codec

import (
	"fmt"
	"io"
	"sort"

	"d42inventory/internal/inventory"
)

// Exporter interface for rendering an inventory in a given format
type Exporter interface {
	// Export writes the whole inventory
	Export(doc *inventory.Document, w io.Writer) error
	// ExportHost writes one host's variables; nil writes an empty object
	ExportHost(vars *inventory.HostVars, w io.Writer) error
	Format() string
}

// ForFormat returns the exporter registered under format.
// indent is the number of spaces per nesting level.
func ForFormat(format string, indent int) (Exporter, error) {
	switch format {
	case "json":
		return NewJSONCodec(indent), nil
	case "yaml":
		return NewYAMLCodec(indent), nil
	case "ansible-yaml":
		return NewAnsibleCodec(indent), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: %v)", format, Formats())
	}
}

// Formats lists the supported output formats
func Formats() []string {
	formats := []string{
		NewJSONCodec(0).Format(),
		NewYAMLCodec(0).Format(),
		NewAnsibleCodec(0).Format(),
	}
	sort.Strings(formats)
	return formats
}
