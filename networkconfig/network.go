package networkconfig

import (
	"fmt"
	"net"
	"strconv"
)

const (
	DefaultHost     = "localhost"
	DefaultBasePort = 3000
)

// Network describes the participants of one consensus network: N nodes of which up
// to F may crash, addressed as Host:BasePort+id.
type Network struct {
	Nodes       int    `yaml:"Nodes" env:"NODES" env-default:"4" env-description:"Total number of nodes in the network (N)"`
	FaultyNodes int    `yaml:"FaultyNodes" env:"FAULTY_NODES" env-default:"1" env-description:"Maximum number of crashed nodes tolerated (F)"`
	Host        string `yaml:"Host" env:"NETWORK_HOST" env-default:"localhost" env-description:"Host every node listens on"`
	BasePort    int    `yaml:"BasePort" env:"BASE_NODE_PORT" env-default:"3000" env-description:"Port of node 0, node i listens on BasePort+i"`
}

// Validate checks that the network can tolerate its faults, which requires N > 2F.
func (n Network) Validate() error {
	if n.Nodes < 1 {
		return fmt.Errorf("network needs at least one node, got %d", n.Nodes)
	}
	if n.FaultyNodes < 0 {
		return fmt.Errorf("negative number of faulty nodes: %d", n.FaultyNodes)
	}
	if n.Nodes <= 2*n.FaultyNodes {
		return fmt.Errorf("cannot tolerate %d faulty nodes out of %d, need N > 2F", n.FaultyNodes, n.Nodes)
	}
	if n.BasePort <= 0 || n.BasePort+n.Nodes-1 > 65535 {
		return fmt.Errorf("invalid port range %d-%d", n.BasePort, n.BasePort+n.Nodes-1)
	}
	return nil
}

// Quorum is the number of votes collected before each phase is aggregated: N-F.
func (n Network) Quorum() int {
	return n.Nodes - n.FaultyNodes
}

// DecideThreshold is the number of matching phase-two votes that fixes a decision: F+1.
func (n Network) DecideThreshold() int {
	return n.FaultyNodes + 1
}

// Majority reports whether count is strictly more than half of N.
func (n Network) Majority(count int) bool {
	return 2*count > n.Nodes
}

// HasNode reports whether id addresses a participant.
func (n Network) HasNode(id int) bool {
	return id >= 0 && id < n.Nodes
}

func (n Network) Port(id int) int {
	return n.BasePort + id
}

// Address returns host:port of node id.
func (n Network) Address(id int) string {
	host := n.Host
	if host == "" {
		host = DefaultHost
	}
	return net.JoinHostPort(host, strconv.Itoa(n.Port(id)))
}

// URL returns the base HTTP URL of node id.
func (n Network) URL(id int) string {
	return "http://" + n.Address(id)
}

// LocalNetwork is the four node, single fault network used by default.
var LocalNetwork = Network{
	Nodes:       4,
	FaultyNodes: 1,
	Host:        DefaultHost,
	BasePort:    DefaultBasePort,
}
