package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyDocumentTree(t *testing.T) {
	data, err := json.Marshal(NewDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"_meta": {"hostvars": {}}}`, string(data))
}

func TestDocumentRestoresFromJSON(t *testing.T) {
	doc, _ := Build(decodeDevices(t, twoSwitches))
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	restored := NewDocument()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, doc.GroupNames(), restored.GroupNames())
	assert.Equal(t, doc.Hosts(GroupAll), restored.Hosts(GroupAll))
	assert.Equal(t, doc.ZoneHosts("dc1", "z2"), restored.ZoneHosts("dc1", "z2"))

	vars, ok := restored.HostVars("sw1")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", *vars.AnsibleHost)
	assert.Equal(t, "z1", vars.Zone)

	again, err := json.Marshal(restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDocumentRejectsMalformedGroup(t *testing.T) {
	doc := NewDocument()
	err := json.Unmarshal([]byte(`{"all": {"hosts": "sw1"}}`), doc)
	assert.Error(t, err)
}
