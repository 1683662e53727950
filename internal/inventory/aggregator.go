package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// Aggregator folds normalized devices into a Document. Every merge creates
// missing groups on demand and never lists a host twice, so folding the same
// device again leaves the document unchanged.
type Aggregator struct {
	doc *Document
}

// NewAggregator starts an empty document
func NewAggregator() *Aggregator {
	return &Aggregator{doc: NewDocument()}
}

// Fold applies the five merges for one device
func (a *Aggregator) Fold(d NormalizedDevice) {
	a.addToAll(d.Name)
	a.addToOS(d.OS, d.Name)
	a.addToSite(d.Site, d.Name)
	if zone, ok := zoneKey(d.Zone); ok {
		a.addToZone(d.Site, zone, d.Name)
	}
	a.setHostVars(d.Name, d.HostVars())
}

// Finish hands off the built document and resets the aggregator, so the
// returned document is never touched again.
func (a *Aggregator) Finish() *Document {
	doc := a.doc
	a.doc = NewDocument()
	return doc
}

func (a *Aggregator) addToAll(name string) {
	a.doc.group(GroupAll).add(name)
}

func (a *Aggregator) addToOS(os, name string) {
	if os == metaKey {
		return
	}
	a.doc.group(os).add(name)
}

func (a *Aggregator) addToSite(site, name string) {
	if site == metaKey {
		return
	}
	a.doc.group(site).add(name)
}

// addToZone nests the host under site.zone. The zone list is separate from
// the site's own host list.
func (a *Aggregator) addToZone(site, zone, name string) {
	if site == metaKey || zone == hostsKey {
		return
	}
	a.doc.group(site).zone(zone).add(name)
}

// setHostVars overwrites any earlier entry for name
func (a *Aggregator) setHostVars(name string, vars HostVars) {
	a.doc.hostVars[name] = vars
}

// zoneKey turns a zone custom-field value into a group key. Absent and
// empty zones produce no zone group.
func zoneKey(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	var key string
	switch z := v.(type) {
	case string:
		key = z
	case float64:
		key = strconv.FormatFloat(z, 'f', -1, 64)
	default:
		key = fmt.Sprint(z)
	}
	key = strings.ToLower(key)
	if strings.TrimSpace(key) == "" {
		return "", false
	}
	return key, true
}
