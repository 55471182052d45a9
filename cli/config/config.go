package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"

	"github.com/ssvlabs/benor/logging"
)

type Args struct {
	ConfigPath string
}

type GlobalConfig struct {
	LogLevel       string `yaml:"LogLevel" env:"LOG_LEVEL" env-default:"info" env-description:"Defines logger's log level"`
	LogFormat      string `yaml:"LogFormat" env:"LOG_FORMAT" env-default:"console" env-description:"Defines logger's encoding, valid values are 'json' and 'console'"`
	LogLevelFormat string `yaml:"LogLevelFormat" env:"LOG_LEVEL_FORMAT" env-default:"capitalColor" env-description:"Defines logger's level format, valid values are 'capitalColor', 'capital' or 'lowercase'"`
	LogFilePath    string `yaml:"LogFilePath" env:"LOG_FILE_PATH" env-description:"Defines a file path to write logs into"`
	LogFileSize    int    `yaml:"LogFileSize" env:"LOG_FILE_SIZE" env-default:"500" env-description:"Defines a file size in megabytes to rotate logs"`
	LogFileBackups int    `yaml:"LogFileBackups" env:"LOG_FILE_BACKUPS" env-default:"3" env-description:"Defines the number of rotated log files to keep"`
	// QuietLoggers hides debug logs of the named loggers on the console.
	QuietLoggers []string `yaml:"QuietLoggers" env:"LOG_QUIET" env-separator:"," env-description:"Logger names whose debug logs are hidden from the console"`
}

// ProcessArgs processes and handles CLI arguments
func ProcessArgs(cfg interface{}, a *Args, cmd *cobra.Command) {
	configFlag := "config"
	cmd.PersistentFlags().StringVarP(&a.ConfigPath, configFlag, "c", "", "Path to configuration file")

	envHelp, _ := cleanenv.GetDescription(cfg, nil)
	cmd.SetUsageTemplate(envHelp + "\n" + cmd.UsageTemplate())
}

// SetupLogger installs the global logger described by the config.
func (c GlobalConfig) SetupLogger() error {
	var fileOptions *logging.LogFileOptions
	if c.LogFilePath != "" {
		fileOptions = &logging.LogFileOptions{
			FilePath:   c.LogFilePath,
			MaxSize:    c.LogFileSize,
			MaxBackups: c.LogFileBackups,
		}
	}
	return logging.SetGlobalLogger(c.LogLevel, c.LogLevelFormat, c.LogFormat, fileOptions, c.QuietLoggers...)
}

// Read fills cfg from the config file, if any, and the environment.
func Read(path string, cfg interface{}) error {
	if path == "" {
		return cleanenv.ReadEnv(cfg)
	}
	return cleanenv.ReadConfig(path, cfg)
}
