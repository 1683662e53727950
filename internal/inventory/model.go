package inventory

// Custom field keys read from every device
const (
	FieldAvailabilityZone = "AvailabilityZone"
	FieldEnvironment      = "Environment"
	FieldSubDomain        = "SubDomain"
	FieldPhysicalName     = "PhysicalName"
	FieldPeerNode         = "PeerNode"
)

// NormalizedDevice is the grouping view of one device record.
// Custom-field values are nil when the key was never set.
type NormalizedDevice struct {
	Name         string
	Site         string
	OS           string
	ManagementIP *string

	Zone         any
	Environment  any
	SubDomain    any
	PhysicalName any
	PeerNode     any

	Vendor       *string
	ModelNumber  *string
	SerialNumber *string
}

// HostVars are the per-host variables published under _meta.hostvars
type HostVars struct {
	AnsibleHost      *string `json:"ansible_host" yaml:"ansible_host"`
	AnsibleNetworkOS string  `json:"ansible_network_os" yaml:"ansible_network_os"`
	SubDomain        any     `json:"subdomain" yaml:"subdomain"`
	Environment      any     `json:"environment" yaml:"environment"`
	Zone             any     `json:"zone" yaml:"zone"`
	ModelNumber      *string `json:"model_number" yaml:"model_number"`
	SerialNumber     *string `json:"serial_number" yaml:"serial_number"`
	Vendor           *string `json:"vendor" yaml:"vendor"`
	PhysicalName     any     `json:"physical_name" yaml:"physical_name"`
	PeerNode         any     `json:"peer_node" yaml:"peer_node"`
	Site             string  `json:"site" yaml:"site"`
}

// HostVars assembles the host variable record for d
func (d NormalizedDevice) HostVars() HostVars {
	return HostVars{
		AnsibleHost:      d.ManagementIP,
		AnsibleNetworkOS: d.OS,
		SubDomain:        d.SubDomain,
		Environment:      d.Environment,
		Zone:             d.Zone,
		ModelNumber:      d.ModelNumber,
		SerialNumber:     d.SerialNumber,
		Vendor:           d.Vendor,
		PhysicalName:     d.PhysicalName,
		PeerNode:         d.PeerNode,
		Site:             d.Site,
	}
}
