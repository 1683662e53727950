package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d42inventory/internal/domain"
)

func TestResolveOS(t *testing.T) {
	tests := []struct {
		name    string
		os      string
		hwModel *string
		want    string
	}{
		{"asr router becomes ios", "ios-xe", domain.String("ASR9001"), "ios"},
		{"lowercase asr also matches", "ios-xe", domain.String("cisco asr1002-x"), "ios"},
		{"nexus keeps ios-xe", "ios-xe", domain.String("Nexus9000"), "ios-xe"},
		{"absent model keeps ios-xe", "ios-xe", nil, "ios-xe"},
		{"other os untouched", "nxos", domain.String("ASR9001"), "nxos"},
		{"os match is exact", "IOS-XE", domain.String("ASR9001"), "IOS-XE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOS(tt.os, tt.hwModel))
		})
	}
}

func TestManagementIP(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		assert.Nil(t, ManagementIP(nil))
		assert.Nil(t, ManagementIP([]domain.IPAddress{}))
	})

	t.Run("no management label", func(t *testing.T) {
		assert.Nil(t, ManagementIP([]domain.IPAddress{{Label: "other", IP: "10.0.0.9"}}))
	})

	t.Run("single management entry", func(t *testing.T) {
		ip := ManagementIP([]domain.IPAddress{{Label: "management", IP: "10.0.0.1"}})
		require.NotNil(t, ip)
		assert.Equal(t, "10.0.0.1", *ip)
	})

	t.Run("last management entry wins", func(t *testing.T) {
		ip := ManagementIP([]domain.IPAddress{
			{Label: "management", IP: "10.0.0.1"},
			{Label: "data", IP: "192.0.2.1"},
			{Label: "management", IP: "10.0.0.2"},
		})
		require.NotNil(t, ip)
		assert.Equal(t, "10.0.0.2", *ip)
	})
}

func TestLookupCustomField(t *testing.T) {
	fields := []domain.CustomField{
		{Key: "Environment", Value: "Production"},
		{Key: "AvailabilityZone", Value: "Z1"},
		{Key: "AvailabilityZone", Value: "Z3"},
		{Key: "Rack", Value: float64(12)},
		{Key: "PeerNode", Value: nil},
	}

	t.Run("last duplicate wins", func(t *testing.T) {
		v, ok := LookupCustomField(fields, "AvailabilityZone")
		assert.True(t, ok)
		assert.Equal(t, "z3", v)
	})

	t.Run("strings are lower-cased", func(t *testing.T) {
		v, ok := LookupCustomField(fields, "Environment")
		assert.True(t, ok)
		assert.Equal(t, "production", v)
	})

	t.Run("non-string passes through", func(t *testing.T) {
		v, ok := LookupCustomField(fields, "Rack")
		assert.True(t, ok)
		assert.Equal(t, float64(12), v)
	})

	t.Run("explicit null is found", func(t *testing.T) {
		v, ok := LookupCustomField(fields, "PeerNode")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		v, ok := LookupCustomField(fields, "SubDomain")
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("key match is case sensitive", func(t *testing.T) {
		_, ok := LookupCustomField(fields, "environment")
		assert.False(t, ok)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		record := domain.DeviceRecord{
			Name:         domain.String("RTR-01"),
			Building:     domain.String("DC1"),
			OS:           domain.String("ios-xe"),
			HWModel:      domain.String("ASR1001-X"),
			Manufacturer: domain.String("Cisco"),
			SerialNo:     domain.String("FOX123ABC"),
			IPAddresses:  []domain.IPAddress{{Label: "management", IP: "10.1.1.1"}},
			CustomFields: []domain.CustomField{
				{Key: "AvailabilityZone", Value: "Z1"},
				{Key: "Environment", Value: "Production"},
				{Key: "SubDomain", Value: "Core.Example"},
				{Key: "PhysicalName", Value: "RTR-01-PHY"},
				{Key: "PeerNode", Value: "RTR-02"},
			},
		}

		d, err := Normalize(record)
		require.NoError(t, err)
		assert.Equal(t, "rtr-01", d.Name)
		assert.Equal(t, "dc1", d.Site)
		assert.Equal(t, "ios", d.OS)
		require.NotNil(t, d.ManagementIP)
		assert.Equal(t, "10.1.1.1", *d.ManagementIP)
		assert.Equal(t, "z1", d.Zone)
		assert.Equal(t, "production", d.Environment)
		assert.Equal(t, "core.example", d.SubDomain)
		assert.Equal(t, "rtr-01-phy", d.PhysicalName)
		assert.Equal(t, "rtr-02", d.PeerNode)
		assert.Equal(t, domain.String("cisco"), d.Vendor)
		assert.Equal(t, domain.String("asr1001-x"), d.ModelNumber)
		assert.Equal(t, domain.String("FOX123ABC"), d.SerialNumber)
	})

	t.Run("result does not alias the record", func(t *testing.T) {
		record := domain.DeviceRecord{
			Name:     domain.String("sw1"),
			Building: domain.String("DC1"),
			OS:       domain.String("eos"),
			SerialNo: domain.String("S1"),
		}
		d, err := Normalize(record)
		require.NoError(t, err)

		*record.SerialNo = "changed"
		assert.Equal(t, domain.String("S1"), d.SerialNumber)
		assert.Equal(t, domain.String("S1"), d.HostVars().SerialNumber)
	})

	t.Run("optional fields absent", func(t *testing.T) {
		d, err := Normalize(domain.DeviceRecord{
			Name:     domain.String("sw1"),
			Building: domain.String("DC1"),
			OS:       domain.String("ios-xe"),
		})
		require.NoError(t, err)
		assert.Equal(t, "ios-xe", d.OS)
		assert.Nil(t, d.ManagementIP)
		assert.Nil(t, d.Zone)
		assert.Nil(t, d.Environment)
		assert.Nil(t, d.Vendor)
		assert.Nil(t, d.ModelNumber)
		assert.Nil(t, d.SerialNumber)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := Normalize(domain.DeviceRecord{SerialNo: domain.String("X9")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingRequiredField))

		var mf *MissingFieldError
		require.True(t, errors.As(err, &mf))
		assert.Equal(t, []string{"name", "os", "building"}, mf.Fields)
		assert.Equal(t, "serial:X9", mf.Identifier())
	})

	t.Run("blank name counts as missing", func(t *testing.T) {
		_, err := Normalize(domain.DeviceRecord{
			Name:     domain.String(" "),
			Building: domain.String("DC1"),
			OS:       domain.String("nxos"),
		})
		assert.ErrorIs(t, err, ErrMissingRequiredField)
	})
}
