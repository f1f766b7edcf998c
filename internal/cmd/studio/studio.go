package studio

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const (
	listCommandCLIErrorMsg  = "failed to list studios"
	startCommandCLIErrorMsg = "failed to start studio"
	stopCommandCLIErrorMsg  = "failed to stop studio"
	viewCommandCLIErrorMsg  = "failed to view studio"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "studio",
		Usage:           "List, start and stop interactive studio sessions",
		HideHelpCommand: true,
		UsageText:       "towerctl studio <command> [options] [args]",
		Commands: []*cli.Command{
			listCommand(),
			startCommand(),
			stopCommand(),
			viewCommand(),
		},
	}
}

func colouredStudioStatus(status string) string {
	switch status {
	case api.StudioStatusStarting, api.StudioStatusBuilding:
		return pterm.Yellow(status)
	case api.StudioStatusRunning:
		return pterm.Green(status)
	case api.StudioStatusStopping:
		return pterm.LightMagenta(status)
	case api.StudioStatusErrored, api.StudioStatusBuildFailed:
		return pterm.Red(status)
	case api.StudioStatusStopped:
		return pterm.Gray(status)
	default:
		return pterm.White(status)
	}
}

func studioStatus(s *api.Studio) string {
	if s.StatusInfo == nil {
		return ""
	}
	return s.StatusInfo.Status
}
