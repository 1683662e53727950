package domain

import "strings"

// Device42 address label marking the out-of-band management interface
const ManagementLabel = "management"

// DeviceList is the envelope returned by the Device42 devices endpoint
type DeviceList struct {
	Devices    []DeviceRecord `json:"Devices"`
	TotalCount int            `json:"total_count,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	Offset     int            `json:"offset,omitempty"`
}

// DeviceRecord is one raw device as served by Device42.
// Any field may be missing or null, so scalars are pointers.
type DeviceRecord struct {
	Name         *string       `json:"name,omitempty" yaml:"name,omitempty"`
	Building     *string       `json:"building,omitempty" yaml:"building,omitempty"`
	OS           *string       `json:"os,omitempty" yaml:"os,omitempty"`
	HWModel      *string       `json:"hw_model,omitempty" yaml:"hw_model,omitempty"`
	Manufacturer *string       `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	SerialNo     *string       `json:"serial_no,omitempty" yaml:"serial_no,omitempty"`
	IPAddresses  []IPAddress   `json:"ip_addresses,omitempty" yaml:"ip_addresses,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty" yaml:"custom_fields,omitempty"`
}

// IPAddress is a labelled address attached to a device
type IPAddress struct {
	Label string `json:"label" yaml:"label"`
	IP    string `json:"ip" yaml:"ip"`
}

// CustomField is an operator-defined key/value attribute.
// Value keeps whatever JSON type Device42 returned.
type CustomField struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// String returns a pointer to s, for building records in code
func String(s string) *string {
	return &s
}

// Identifier returns the best available label for log and error output:
// the device name, then the serial number, then the empty string.
func (d *DeviceRecord) Identifier() string {
	if v := Deref(d.Name); strings.TrimSpace(v) != "" {
		return v
	}
	if v := Deref(d.SerialNo); strings.TrimSpace(v) != "" {
		return "serial:" + v
	}
	return ""
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
