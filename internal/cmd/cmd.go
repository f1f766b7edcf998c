// Package cmd assembles the towerctl command tree.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/computeenv"
	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/cmd/info"
	"github.com/nf-forge/towerctl/internal/cmd/launch"
	"github.com/nf-forge/towerctl/internal/cmd/organization"
	"github.com/nf-forge/towerctl/internal/cmd/pipeline"
	"github.com/nf-forge/towerctl/internal/cmd/profile"
	"github.com/nf-forge/towerctl/internal/cmd/run"
	"github.com/nf-forge/towerctl/internal/cmd/studio"
	"github.com/nf-forge/towerctl/internal/cmd/workspace"
	"github.com/nf-forge/towerctl/internal/pkg/logger"
	"github.com/nf-forge/towerctl/internal/pkg/version"
)

func init() {
	cli.VersionPrinter = func(cmd *cli.Command) {
		_, _ = fmt.Fprint(cmd.Root().Writer, helper.FormatKV([]string{
			fmt.Sprintf("Version|%s", cmd.Version),
			fmt.Sprintf("Build Time|%s", version.BuildTime),
			fmt.Sprintf("Build Commit|%s", version.BuildCommit),
		}))
		_, _ = fmt.Fprint(cmd.Root().Writer, "\n")
	}
}

// New returns the root command. Errors are returned from Run rather than
// terminating the process, so main decides the exit status.
func New() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			computeenv.Command(),
			info.Command(),
			launch.Command(),
			organization.Command(),
			pipeline.Command(),
			profile.Command(),
			run.Command(),
			studio.Command(),
			workspace.Command(),
		},
		Name:  "towerctl",
		Usage: "Launch and monitor Nextflow pipelines on Seqera Platform",
		Description: strings.TrimSpace(`
towerctl drives the Seqera Platform (formerly Nextflow Tower) API from the
command line. Launch saved pipelines or repositories with overrides, then
block until the run or studio reaches the status you need, which makes the
tool suitable for CI jobs and scripted workflows.`),
		Version:         version.Get(),
		HideHelpCommand: true,
		Flags:           logger.Flags(),
		ExitErrHandler:  func(context.Context, *cli.Command, error) {},
	}
}
