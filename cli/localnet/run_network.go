package localnet

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aquasecurity/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	global_config "github.com/ssvlabs/benor/cli/config"
	"github.com/ssvlabs/benor/localnet"
	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

type config struct {
	global_config.GlobalConfig `yaml:"global"`
	Network                    networkconfig.Network `yaml:"network"`

	InitialValues string        `yaml:"InitialValues" env:"INITIAL_VALUES" env-description:"Comma separated initial values, one per node, e.g. 0,0,0,1"`
	FaultyIDs     string        `yaml:"FaultyIDs" env:"FAULTY_IDS" env-description:"Comma separated ids of faulty nodes"`
	Timeout       time.Duration `yaml:"Timeout" env:"TIMEOUT" env-default:"1m" env-description:"How long to wait for every live node to decide"`
}

var cfg config

var globalArgs global_config.Args

// RunNetworkCmd runs a whole network in this process and prints the outcome.
var RunNetworkCmd = &cobra.Command{
	Use:   "run-network",
	Short: "Runs a local Ben-Or network until every live node decides",
	Run: func(cmd *cobra.Command, args []string) {
		if err := global_config.Read(globalArgs.ConfigPath, &cfg); err != nil {
			log.Fatal("could not read config ", err)
		}
		if err := cfg.SetupLogger(); err != nil {
			log.Fatal("could not create logger ", err)
		}
		logger := zap.L()

		defer logging.CapturePanic(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := runNetwork(ctx, logger, os.Stdout); err != nil {
			logger.Fatal("local network failed", zap.Error(err))
		}
	},
}

func runNetwork(ctx context.Context, logger *zap.Logger, out io.Writer) error {
	initial, err := parseInitialValues(cfg.InitialValues, cfg.Network.Nodes)
	if err != nil {
		return err
	}
	faulty, err := parseIDs(cfg.FaultyIDs)
	if err != nil {
		return err
	}

	ln, err := localnet.New(ctx, logger, localnet.Options{
		Network:       cfg.Network,
		InitialValues: initial,
		Faulty:        faulty,
	})
	if err != nil {
		return errors.Wrap(err, "could not create local network")
	}
	if err := ln.Launch(ctx); err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ln.Close(closeCtx); err != nil {
			logger.Warn("could not close local network", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := ln.StartConsensus(ctx); err != nil {
		return errors.Wrap(err, "could not start consensus")
	}
	states, waitErr := ln.WaitForDecisions(ctx)
	if states != nil {
		printStates(out, states)
	}
	return waitErr
}

func printStates(out io.Writer, states []types.NodeState) {
	tbl := table.New(out)
	tbl.SetHeaders("Node", "Killed", "X", "Decided", "K")
	for id, state := range states {
		tbl.AddRow(
			strconv.Itoa(id),
			strconv.FormatBool(state.Killed),
			optional(state.X),
			optional(state.Decided),
			optional(state.K),
		)
	}
	tbl.Render()
}

func optional[T any](v *T) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(*v)
}

// parseInitialValues defaults to all zeros when s is empty.
func parseInitialValues(s string, nodes int) ([]types.Value, error) {
	values := make([]types.Value, nodes)
	if s == "" {
		return values, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != nodes {
		return nil, fmt.Errorf("got %d initial values for %d nodes", len(parts), nodes)
	}
	for i, p := range parts {
		v, err := types.ParseValue(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func parseIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, p := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	global_config.ProcessArgs(&cfg, &globalArgs, RunNetworkCmd)
}
