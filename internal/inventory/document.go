package inventory

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Reserved keys of the dynamic inventory layout
const (
	GroupAll    = "all"
	metaKey     = "_meta"
	hostsKey    = "hosts"
	hostvarsKey = "hostvars"
)

// group is a de-duplicated, insertion-ordered host list. Site groups also
// hold their availability-zone subgroups.
type group struct {
	hosts   []string
	members map[string]struct{}
	zones   map[string]*group
}

func newGroup() *group {
	return &group{members: make(map[string]struct{})}
}

// add appends host unless it is already a member
func (g *group) add(host string) bool {
	if _, ok := g.members[host]; ok {
		return false
	}
	g.members[host] = struct{}{}
	g.hosts = append(g.hosts, host)
	return true
}

func (g *group) zone(name string) *group {
	if g.zones == nil {
		g.zones = make(map[string]*group)
	}
	z, ok := g.zones[name]
	if !ok {
		z = newGroup()
		g.zones[name] = z
	}
	return z
}

// Document is the grouped inventory. It is only mutated by an Aggregator;
// every accessor returns copies.
type Document struct {
	groups   map[string]*group
	hostVars map[string]HostVars
}

// NewDocument returns an empty inventory
func NewDocument() *Document {
	return &Document{
		groups:   make(map[string]*group),
		hostVars: make(map[string]HostVars),
	}
}

func (d *Document) group(name string) *group {
	g, ok := d.groups[name]
	if !ok {
		g = newGroup()
		d.groups[name] = g
	}
	return g
}

// GroupNames returns the top-level group names, sorted
func (d *Document) GroupNames() []string {
	names := make([]string, 0, len(d.groups))
	for name := range d.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hosts returns the flat host list of a top-level group
func (d *Document) Hosts(name string) []string {
	g, ok := d.groups[name]
	if !ok {
		return nil
	}
	return append([]string(nil), g.hosts...)
}

// Zones returns the zone subgroup names nested under site, sorted
func (d *Document) Zones(site string) []string {
	g, ok := d.groups[site]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(g.zones))
	for name := range g.zones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ZoneHosts returns the host list of the site's zone subgroup
func (d *Document) ZoneHosts(site, zone string) []string {
	g, ok := d.groups[site]
	if !ok {
		return nil
	}
	z, ok := g.zones[zone]
	if !ok {
		return nil
	}
	return append([]string(nil), z.hosts...)
}

// HostVars returns the variables of one host
func (d *Document) HostVars(name string) (HostVars, bool) {
	v, ok := d.hostVars[name]
	return v, ok
}

// HostNames returns every host with variables, sorted
func (d *Document) HostNames() []string {
	names := make([]string, 0, len(d.hostVars))
	for name := range d.hostVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of hosts
func (d *Document) Len() int {
	return len(d.hostVars)
}

// Tree renders the document in the generic nested shape consumed by
// Ansible's script inventory plugin.
func (d *Document) Tree() map[string]any {
	tree := make(map[string]any, len(d.groups)+1)
	for name, g := range d.groups {
		entry := make(map[string]any, len(g.zones)+1)
		if g.hosts != nil || len(g.zones) == 0 {
			entry[hostsKey] = hostList(g.hosts)
		}
		for zone, z := range g.zones {
			entry[zone] = map[string]any{hostsKey: hostList(z.hosts)}
		}
		tree[name] = entry
	}

	hostvars := make(map[string]HostVars, len(d.hostVars))
	for name, v := range d.hostVars {
		hostvars[name] = v
	}
	tree[metaKey] = map[string]any{hostvarsKey: hostvars}
	return tree
}

func hostList(hosts []string) []string {
	out := make([]string, len(hosts))
	copy(out, hosts)
	return out
}

// MarshalJSON encodes the Tree form
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Tree())
}

// UnmarshalJSON rebuilds a document from its Tree form
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode inventory: %w", err)
	}

	doc := NewDocument()
	for key, msg := range raw {
		if key == metaKey {
			var meta struct {
				HostVars map[string]HostVars `json:"hostvars"`
			}
			if err := json.Unmarshal(msg, &meta); err != nil {
				return fmt.Errorf("decode %s: %w", metaKey, err)
			}
			for name, v := range meta.HostVars {
				doc.hostVars[name] = v
			}
			continue
		}

		var entries map[string]json.RawMessage
		if err := json.Unmarshal(msg, &entries); err != nil {
			return fmt.Errorf("decode group %s: %w", key, err)
		}
		g := doc.group(key)
		for name, entry := range entries {
			if name == hostsKey {
				var hosts []string
				if err := json.Unmarshal(entry, &hosts); err != nil {
					return fmt.Errorf("decode %s.hosts: %w", key, err)
				}
				if g.hosts == nil {
					g.hosts = []string{}
				}
				for _, h := range hosts {
					g.add(h)
				}
				continue
			}
			var zone struct {
				Hosts []string `json:"hosts"`
			}
			if err := json.Unmarshal(entry, &zone); err != nil {
				return fmt.Errorf("decode %s.%s: %w", key, name, err)
			}
			z := g.zone(name)
			for _, h := range zone.Hosts {
				z.add(h)
			}
		}
	}

	*d = *doc
	return nil
}
