package helper

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/pkg/wait"
)

const (
	urlCLIFlag          = "url"
	tokenCLIFlag        = "token"
	workspaceCLIFlag    = "workspace"
	profileCLIFlag      = "profile"
	configCLIFlag       = "config"
	outputCLIFlag       = "output"
	waitTimeoutCLIFlag  = "wait-timeout"
	waitIntervalCLIFlag = "wait-interval"

	ClientFlagsWithWorkspace    = true
	ClientFlagsWithoutWorkspace = false

	OutputTable = "table"
	OutputJSON  = "json"

	// DefaultWaitTimeout bounds --wait and "run wait" when the user does not
	// pass --wait-timeout.
	DefaultWaitTimeout = 24 * time.Hour
)

func ClientFlags(workspace bool) []cli.Flag {
	f := []cli.Flag{
		&cli.StringFlag{
			Sources: cli.EnvVars("TOWER_API_ENDPOINT"),
			Name:    urlCLIFlag,
			Usage:   "Platform API endpoint to make requests to (default: https://api.tower.nf)",
		},
		&cli.StringFlag{
			Aliases: []string{"t"},
			Sources: cli.EnvVars("TOWER_ACCESS_TOKEN"),
			Name:    tokenCLIFlag,
			Usage:   "Personal access token used to authenticate API requests",
		},
		&cli.StringFlag{
			Sources: cli.EnvVars("TOWERCTL_PROFILE"),
			Name:    profileCLIFlag,
			Usage:   "Name of the configuration profile to use instead of the current one",
		},
	}
	f = append(f, ConfigFlags()...)

	if workspace {
		f = append(f, &cli.StringFlag{
			Aliases: []string{"w"},
			Sources: cli.EnvVars("TOWER_WORKSPACE_ID"),
			Name:    workspaceCLIFlag,
			Usage:   "Workspace ID or organization/workspace name, personal workspace when empty",
		})
	}

	return f
}

// ConfigFlags are the flags of commands that only work with the local
// configuration file.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Sources: cli.EnvVars("TOWERCTL_CONFIG"),
			Name:    configCLIFlag,
			Usage:   "Path to the configuration file (default: ~/.towerctl/config.hcl)",
		},
		&cli.StringFlag{
			Aliases: []string{"o"},
			Name:    outputCLIFlag,
			Value:   OutputTable,
			Usage:   "Output format, one of table or json",
		},
	}
}

func WaitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  waitTimeoutCLIFlag,
			Value: DefaultWaitTimeout,
			Usage: "Maximum time to wait for the requested status",
		},
		&cli.DurationFlag{
			Name:  waitIntervalCLIFlag,
			Value: wait.DefaultInterval,
			Usage: "Time between status checks while waiting",
		},
	}
}
