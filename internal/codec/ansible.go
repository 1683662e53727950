package codec

import (
	"io"

	"d42inventory/internal/inventory"
)

// AnsibleCodec writes a static Ansible YAML inventory: every host with its
// variables under all.hosts, and each OS, site and zone as a child group.
// Zone groups become site children named <site>_<zone>.
type AnsibleCodec struct {
	indent int
}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec(indent int) *AnsibleCodec {
	return &AnsibleCodec{indent: indent}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible-yaml"
}

// ansibleInventory represents the Ansible inventory structure
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Hosts    map[string]any           `yaml:"hosts,omitempty"`
	Children map[string]*ansibleGroup `yaml:"children,omitempty"`
}

// member is an entry in a child group's host map. Variables live on
// all.hosts only, so members are empty.
type member struct{}

// Export exports the inventory to Ansible inventory format
func (c *AnsibleCodec) Export(doc *inventory.Document, w io.Writer) error {
	if doc == nil {
		doc = inventory.NewDocument()
	}
	return encodeYAML(w, c.indent, c.build(doc))
}

// ExportHost exports one host's variables, same as the YAML codec
func (c *AnsibleCodec) ExportHost(vars *inventory.HostVars, w io.Writer) error {
	return NewYAMLCodec(c.indent).ExportHost(vars, w)
}

func (c *AnsibleCodec) build(doc *inventory.Document) ansibleInventory {
	inv := ansibleInventory{}

	if names := doc.HostNames(); len(names) > 0 {
		inv.All.Hosts = make(map[string]any, len(names))
		for _, name := range names {
			vars, _ := doc.HostVars(name)
			inv.All.Hosts[name] = vars
		}
	}

	for _, name := range doc.GroupNames() {
		if name == inventory.GroupAll {
			continue
		}
		child := &ansibleGroup{Hosts: members(doc.Hosts(name))}
		for _, zone := range doc.Zones(name) {
			if child.Children == nil {
				child.Children = make(map[string]*ansibleGroup)
			}
			child.Children[name+"_"+zone] = &ansibleGroup{Hosts: members(doc.ZoneHosts(name, zone))}
		}
		if inv.All.Children == nil {
			inv.All.Children = make(map[string]*ansibleGroup)
		}
		inv.All.Children[name] = child
	}

	return inv
}

func members(hosts []string) map[string]any {
	if len(hosts) == 0 {
		return nil
	}
	m := make(map[string]any, len(hosts))
	for _, h := range hosts {
		m[h] = member{}
	}
	return m
}
