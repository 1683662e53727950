package inventory

import (
	"strings"

	"d42inventory/internal/domain"
)

// Ansible has no ios-xe network OS; ASR routers are driven as ios
const (
	osIOSXE     = "ios-xe"
	osIOS       = "ios"
	asrModelTag = "asr"
)

// Normalize extracts the grouping fields and host variables from one record.
// Records without a name, OS or building fail with *MissingFieldError.
func Normalize(record domain.DeviceRecord) (NormalizedDevice, error) {
	var missing []string
	if blank(record.Name) {
		missing = append(missing, "name")
	}
	if blank(record.OS) {
		missing = append(missing, "os")
	}
	if blank(record.Building) {
		missing = append(missing, "building")
	}
	if len(missing) > 0 {
		return NormalizedDevice{}, &MissingFieldError{Record: record.Identifier(), Fields: missing}
	}

	d := NormalizedDevice{
		Name:         strings.ToLower(*record.Name),
		Site:         strings.ToLower(*record.Building),
		OS:           ResolveOS(*record.OS, record.HWModel),
		ManagementIP: ManagementIP(record.IPAddresses),
		Vendor:       lower(record.Manufacturer),
		ModelNumber:  lower(record.HWModel),
		SerialNumber: clone(record.SerialNo),
	}
	d.Zone, _ = LookupCustomField(record.CustomFields, FieldAvailabilityZone)
	d.Environment, _ = LookupCustomField(record.CustomFields, FieldEnvironment)
	d.SubDomain, _ = LookupCustomField(record.CustomFields, FieldSubDomain)
	d.PhysicalName, _ = LookupCustomField(record.CustomFields, FieldPhysicalName)
	d.PeerNode, _ = LookupCustomField(record.CustomFields, FieldPeerNode)

	return d, nil
}

// ResolveOS rewrites ios-xe to ios for ASR hardware. An absent model
// leaves the OS untouched.
func ResolveOS(os string, hwModel *string) string {
	if os != osIOSXE || hwModel == nil {
		return os
	}
	if strings.Contains(strings.ToLower(*hwModel), asrModelTag) {
		return osIOS
	}
	return os
}

// ManagementIP returns the address of the last entry labelled
// "management", or nil when there is none.
func ManagementIP(addresses []domain.IPAddress) *string {
	var ip *string
	for i := range addresses {
		if addresses[i].Label == domain.ManagementLabel {
			v := addresses[i].IP
			ip = &v
		}
	}
	return ip
}

// LookupCustomField scans fields for key; the last match wins.
// String values are lower-cased, other types are returned as is.
// ok is false when no field carries the key.
func LookupCustomField(fields []domain.CustomField, key string) (value any, ok bool) {
	for _, f := range fields {
		if f.Key != key {
			continue
		}
		ok = true
		if s, isString := f.Value.(string); isString {
			value = strings.ToLower(s)
		} else {
			value = f.Value
		}
	}
	return value, ok
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
