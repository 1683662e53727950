// Package repository defines the storage interface for cached inventories.
//
// Every successful inventory run can be stored as a snapshot: the rendered
// document plus the device count and the identifiers of skipped records.
// The CLI serves the latest snapshot while it is younger than the configured
// TTL, so Ansible runs that call the inventory script repeatedly do not hit
// the Device42 API each time.
//
// The sqlite subpackage is the only implementation. It migrates its schema
// on open and is tested against in-memory databases.
package repository
