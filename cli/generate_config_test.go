package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ssvlabs/benor/networkconfig"
)

func TestBuildNodeConfig(t *testing.T) {
	nodeID, initialValue, nodes, faultyNodes, host, basePort = 2, "1", 5, 2, "127.0.0.1", 4000
	logLevel = "debug"

	config, err := buildNodeConfig()
	require.NoError(t, err)

	data, err := yaml.Marshal(&config)
	require.NoError(t, err)

	var decoded NodeConfig
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Equal(t, config, decoded)
	require.Equal(t, networkconfig.Network{Nodes: 5, FaultyNodes: 2, Host: "127.0.0.1", BasePort: 4000}, decoded.Network)
	require.Contains(t, string(data), "LogLevel: debug")

	nodeID = 5
	_, err = buildNodeConfig()
	require.Error(t, err)

	nodeID, faultyNodes = 0, 3
	_, err = buildNodeConfig()
	require.Error(t, err)
}
