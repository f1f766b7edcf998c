package run

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const (
	cancelCommandCLIErrorMsg = "failed to cancel workflow run"
	deleteCommandCLIErrorMsg = "failed to delete workflow run"
	listCommandCLIErrorMsg   = "failed to list workflow runs"
	viewCommandCLIErrorMsg   = "failed to view workflow run"
	waitCommandCLIErrorMsg   = "workflow run did not reach the requested status"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "run",
		Usage:           "Inspect, cancel and wait on workflow runs",
		HideHelpCommand: true,
		UsageText:       "towerctl run <command> [options] [args]",
		Commands: []*cli.Command{
			cancelCommand(),
			deleteCommand(),
			listCommand(),
			viewCommand(),
			waitCommand(),
		},
	}
}

func colouredWorkflowStatus(status string) string {
	switch status {
	case api.WorkflowStatusSubmitted:
		return pterm.Yellow(status)
	case api.WorkflowStatusRunning:
		return pterm.LightMagenta(status)
	case api.WorkflowStatusSucceeded:
		return pterm.Green(status)
	case api.WorkflowStatusFailed:
		return pterm.Red(status)
	case api.WorkflowStatusCancelled:
		return pterm.Gray(status)
	default:
		return pterm.White(status)
	}
}
