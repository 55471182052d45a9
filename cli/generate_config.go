package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssvlabs/benor/networkconfig"
)

const (
	defaultOutputPath     = "./config/config.local.yaml"
	defaultLogLevel       = "info"
	configFilePermissions = 0644
)

var (
	defaultNetwork = networkconfig.LocalNetwork
)

var (
	outputPath     string
	logLevel       string
	nodeID         int
	initialValue   string
	faulty         bool
	nodes          int
	faultyNodes    int
	host           string
	basePort       int
	metricsAPIPort int
)

type NodeConfig struct {
	Global struct {
		LogLevel string `yaml:"LogLevel,omitempty"`
	} `yaml:"global,omitempty"`
	Network        networkconfig.Network `yaml:"network"`
	NodeID         int                   `yaml:"NodeID"`
	InitialValue   string                `yaml:"InitialValue"`
	Faulty         bool                  `yaml:"Faulty,omitempty"`
	MetricsAPIPort int                   `yaml:"MetricsAPIPort,omitempty"`
}

func buildNodeConfig() (NodeConfig, error) {
	var config NodeConfig
	config.Global.LogLevel = logLevel
	config.Network = networkconfig.Network{
		Nodes:       nodes,
		FaultyNodes: faultyNodes,
		Host:        host,
		BasePort:    basePort,
	}
	if err := config.Network.Validate(); err != nil {
		return NodeConfig{}, err
	}
	if !config.Network.HasNode(nodeID) {
		return NodeConfig{}, fmt.Errorf("node id %d is out of range", nodeID)
	}
	config.NodeID = nodeID
	config.InitialValue = initialValue
	config.Faulty = faulty
	config.MetricsAPIPort = metricsAPIPort
	return config, nil
}

// generateConfigCmd is the command to generate a node config.
var generateConfigCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "generates a Ben-Or node config",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := buildNodeConfig()
		if err != nil {
			log.Fatalf("Invalid config: %v", err)
		}

		data, err := yaml.Marshal(&config)
		if err != nil {
			log.Fatalf("Failed to marshal YAML: %v", err)
		}

		err = os.WriteFile(outputPath, data, configFilePermissions)
		if err != nil {
			log.Fatalf("Failed to write file: %v", err)
		}

		log.Printf("Saved config into '%s':", outputPath)
		fmt.Println(string(data))
	},
}

func init() {
	generateConfigCmd.Flags().StringVarP(&outputPath, "output-path", "o", defaultOutputPath, "Output path for generated config")
	generateConfigCmd.Flags().StringVar(&logLevel, "log-level", defaultLogLevel, "Log level")
	generateConfigCmd.Flags().IntVar(&nodeID, "node-id", 0, "Node index")
	generateConfigCmd.Flags().StringVar(&initialValue, "initial-value", "0", "Initial value, 0 or 1")
	generateConfigCmd.Flags().BoolVar(&faulty, "faulty", false, "Run as a faulty node")
	generateConfigCmd.Flags().IntVar(&nodes, "nodes", defaultNetwork.Nodes, "Number of nodes (N)")
	generateConfigCmd.Flags().IntVar(&faultyNodes, "faulty-nodes", defaultNetwork.FaultyNodes, "Tolerated faulty nodes (F)")
	generateConfigCmd.Flags().StringVar(&host, "host", defaultNetwork.Host, "Host every node listens on")
	generateConfigCmd.Flags().IntVar(&basePort, "base-port", defaultNetwork.BasePort, "Port of node 0")
	generateConfigCmd.Flags().IntVar(&metricsAPIPort, "metrics-api-port", 0, "Metrics API port")

	RootCmd.AddCommand(generateConfigCmd)
}
