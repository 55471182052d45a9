package cli

import (
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssvlabs/benor/cli/localnet"
	"github.com/ssvlabs/benor/cli/operator"
	"github.com/ssvlabs/benor/utils/commons"
)

// RootCmd represents the root command of the Ben-Or node CLI
var RootCmd = &cobra.Command{
	Use:   "benornode",
	Short: "benor-node",
	Long:  `Ben-Or node is a CLI for running nodes of a Ben-Or binary consensus network.`,
}

// Execute executes the root command
func Execute(appName, version string) {
	RootCmd.Short = appName
	RootCmd.Version = version
	commons.SetBuildData(appName, version)

	if err := RootCmd.Execute(); err != nil {
		log.Fatal("failed to execute root command", zap.Error(err))
	}
}

func init() {
	RootCmd.AddCommand(operator.StartNodeCmd)
	RootCmd.AddCommand(localnet.RunNetworkCmd)
}
