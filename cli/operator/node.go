package operator

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ssvlabs/benor/api/handlers"
	apiserver "github.com/ssvlabs/benor/api/server"
	global_config "github.com/ssvlabs/benor/cli/config"
	"github.com/ssvlabs/benor/logging"
	"github.com/ssvlabs/benor/logging/fields"
	"github.com/ssvlabs/benor/monitoring/metrics"
	"github.com/ssvlabs/benor/network/transport"
	"github.com/ssvlabs/benor/networkconfig"
	"github.com/ssvlabs/benor/observability"
	"github.com/ssvlabs/benor/protocol/benor/node"
	"github.com/ssvlabs/benor/protocol/benor/types"
	"github.com/ssvlabs/benor/utils/commons"
)

type config struct {
	global_config.GlobalConfig `yaml:"global"`
	Network                    networkconfig.Network `yaml:"network"`

	NodeID         int           `yaml:"NodeID" env:"NODE_ID" env-default:"0" env-description:"Index of this node in the network, it listens on BasePort+NodeID"`
	InitialValue   string        `yaml:"InitialValue" env:"INITIAL_VALUE" env-default:"0" env-description:"Initial consensus value, 0 or 1"`
	Faulty         bool          `yaml:"Faulty" env:"FAULTY" env-description:"Run as a crashed node that never votes"`
	RetryInterval  time.Duration `yaml:"RetryInterval" env:"RETRY_INTERVAL" env-default:"10ms" env-description:"Quorum wait re-check interval"`
	MetricsAPIPort int           `yaml:"MetricsAPIPort" env:"METRICS_API_PORT" env-description:"Port to listen on for the metrics API."`
	EnableProfile  bool          `yaml:"EnableProfile" env:"ENABLE_PROFILE" env-description:"flag that indicates whether go profiling tools are enabled"`
}

func (c config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(data)
}

var cfg config

var globalArgs global_config.Args

var StartNodeCmd = &cobra.Command{
	Use:   "start-node",
	Short: "Starts a Ben-Or consensus node",
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := setupGlobal()
		if err != nil {
			log.Fatal("could not create logger ", err)
		}

		defer logging.CapturePanic(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := run(ctx, logger, cmd.Parent().Short, cmd.Parent().Version); err != nil {
			logger.Fatal("node failed", zap.Error(err))
		}
	},
}

func setupGlobal() (*zap.Logger, error) {
	if err := global_config.Read(globalArgs.ConfigPath, &cfg); err != nil {
		return nil, errors.Wrap(err, "could not read config")
	}
	if err := cfg.SetupLogger(); err != nil {
		return nil, fmt.Errorf("logging.SetGlobalLogger: %w", err)
	}
	return zap.L(), nil
}

func run(ctx context.Context, logger *zap.Logger, appName, version string) error {
	initialValue, err := types.ParseValue(cfg.InitialValue)
	if err != nil {
		return err
	}
	if err := cfg.Network.Validate(); err != nil {
		return errors.Wrap(err, "invalid network config")
	}
	logger = logger.With(fields.NodeID(cfg.NodeID))
	logger.Info("starting Ben-Or node", zap.String("build", commons.GetBuildData()), fields.Config(cfg))

	var obsOptions []observability.Option
	if cfg.MetricsAPIPort > 0 {
		obsOptions = append(obsOptions, observability.WithMetrics())
	}
	shutdownObservability, err := observability.Initialize(ctx, appName, version, logger, obsOptions...)
	if err != nil {
		return errors.Wrap(err, "could not initialize observability")
	}
	defer func() {
		if err := shutdownObservability(context.Background()); err != nil {
			logger.Warn("could not shut down observability", zap.Error(err))
		}
	}()

	client := transport.NewHTTP(cfg.Network, transport.WithLogger(logger))
	n, err := node.New(ctx, logger, node.Options{
		ID:            cfg.NodeID,
		Network:       cfg.Network,
		InitialValue:  initialValue,
		Faulty:        cfg.Faulty,
		Ready:         client.AllReachable,
		Broadcaster:   client,
		RetryInterval: cfg.RetryInterval,
	})
	if err != nil {
		return errors.Wrap(err, "could not create node")
	}
	defer n.Close()

	if cfg.MetricsAPIPort > 0 {
		go startMetricsHandler(logger, n, cfg.MetricsAPIPort, cfg.EnableProfile)
	}

	srv := apiserver.New(logger, cfg.Network.Address(cfg.NodeID), &handlers.Node{Logger: logger, Node: n})
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "node API stopped")
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startMetricsHandler(logger *zap.Logger, n *node.Node, port int, enableProf bool) {
	health := metrics.HealthCheckFunc(func() error {
		if n.Faulty() {
			return errors.New("node is faulty")
		}
		if n.State().Killed {
			return types.ErrNodeStopped
		}
		return nil
	})
	metricsHandler := metrics.NewMetricsHandler(enableProf, health)
	addr := fmt.Sprintf(":%d", port)
	if err := metricsHandler.Start(logger, http.NewServeMux(), addr); err != nil {
		logger.Panic("failed to serve metrics", zap.Error(err))
	}
}

func init() {
	global_config.ProcessArgs(&cfg, &globalArgs, StartNodeCmd)
}
