// Package domain defines the raw types exchanged with Device42 and the cache.
//
// # Core Types
//
// DeviceRecord is one device as the Device42 API returns it. Every field is
// optional in practice, so scalar fields are pointers and custom field values
// keep their original JSON type.
//
// Snapshot is a stored inventory run: the rendered inventory document plus
// bookkeeping (device count, skipped record identifiers, creation time).
//
// # Design Principles
//
// - No database or network dependencies
// - Absent values stay distinguishable from empty ones
package domain
