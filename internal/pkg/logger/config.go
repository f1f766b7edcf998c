package logger

import (
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/hashicorp/nomad/helper/pointer"
)

type Config struct {
	Level            string `hcl:"level,optional"`
	JSON             *bool  `hcl:"json,optional"`
	IncludeLine      *bool  `hcl:"include_line,optional"`
	EnableStacktrace *bool  `hcl:"enable_stacktrace,optional"`
}

// DefaultCLIConfig keeps the CLI quiet unless something goes wrong, so that
// tables and JSON on stdout are not interleaved with log lines.
func DefaultCLIConfig() *Config {
	return &Config{
		Level:            zap.WarnLevel.String(),
		JSON:             pointer.Of(false),
		IncludeLine:      pointer.Of(false),
		EnableStacktrace: pointer.Of(false),
	}
}

func (c *Config) Merge(other *Config) *Config {

	if c == nil {
		return other
	}

	result := *c

	if other == nil {
		return &result
	}

	if other.Level != "" {
		result.Level = other.Level
	}
	if other.JSON != nil {
		result.JSON = other.JSON
	}
	if other.IncludeLine != nil {
		result.IncludeLine = other.IncludeLine
	}
	if other.EnableStacktrace != nil {
		result.EnableStacktrace = other.EnableStacktrace
	}

	return &result
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "The threshold level for logging",
			Sources: cli.EnvVars("TOWERCTL_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "If the output should be in JSON format",
		},
		&cli.BoolFlag{
			Name:  "log-include-line",
			Usage: "Include file and line information in each log line",
		},
		&cli.BoolFlag{
			Name:  "log-enable-stacktrace",
			Usage: "Enable stacktrace capturing for error level logs",
		},
	}
}

func ConfigFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Level:            cmd.String("log-level"),
		JSON:             boolFromCLI(cmd, "log-json"),
		IncludeLine:      boolFromCLI(cmd, "log-include-line"),
		EnableStacktrace: boolFromCLI(cmd, "log-enable-stacktrace"),
	}
}

func boolFromCLI(cmd *cli.Command, name string) *bool {
	if cmd.IsSet(name) {
		return pointer.Of(cmd.Bool(name))
	}
	return nil
}
