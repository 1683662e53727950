// Package service coordinates the Device42 source, the inventory builder and
// the snapshot cache.
//
// InventoryService is the only service. The CLI calls Inventory for --list
// and HostVars for --host; both go through the same cache check, so a
// playbook that resolves many hosts triggers at most one Device42 fetch per
// TTL window.
package service
