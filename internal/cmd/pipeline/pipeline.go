package pipeline

import (
	"github.com/urfave/cli/v3"
)

const (
	listCommandCLIErrorMsg = "failed to list pipelines"
	viewCommandCLIErrorMsg = "failed to view pipeline"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "pipeline",
		Usage:           "Read the saved pipelines of a workspace",
		HideHelpCommand: true,
		UsageText:       "towerctl pipeline <command> [options] [args]",
		Commands: []*cli.Command{
			listCommand(),
			viewCommand(),
		},
	}
}
