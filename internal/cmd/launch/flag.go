package launch

import (
	"fmt"
	"os"

	"github.com/hashicorp/nomad/helper/pointer"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
)

func launchFlags() []cli.Flag {
	return append(
		append(helper.ClientFlags(helper.ClientFlagsWithWorkspace), helper.WaitFlags()...),
		[]cli.Flag{
			&cli.StringFlag{
				Name:    "compute-env",
				Aliases: []string{"c"},
				Usage:   "Compute environment ID or name, the primary compute environment is used when neither this nor the saved pipeline sets one",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Custom name of the workflow run",
			},
			&cli.StringFlag{
				Name:  "work-dir",
				Usage: "Path where the pipeline scratch data is stored",
			},
			&cli.StringFlag{
				Name:    "revision",
				Aliases: []string{"r"},
				Usage:   "Git branch, tag or commit of the pipeline to launch",
			},
			&cli.StringSliceFlag{
				Name:    "profile-name",
				Aliases: []string{"P"},
				Usage:   "Nextflow configuration profile, may be repeated or comma separated",
			},
			&cli.StringFlag{
				Name:  "params-file",
				Usage: "JSON or YAML file of pipeline parameters, merged over the saved parameters",
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Set a pipeline parameter (key=value or nested.key=value), applied after --params-file",
			},
			&cli.StringFlag{
				Name:  "nextflow-config",
				Usage: "File of additional Nextflow configuration",
			},
			&cli.StringFlag{
				Name:  "pre-run",
				Usage: "File with a Bash script executed before the pipeline is launched",
			},
			&cli.StringFlag{
				Name:  "post-run",
				Usage: "File with a Bash script executed after the pipeline completes",
			},
			&cli.StringFlag{
				Name:  "main-script",
				Usage: "Pipeline main script file if different from main.nf",
			},
			&cli.StringFlag{
				Name:  "entry-name",
				Usage: "Workflow entry name when using Nextflow DSL2",
			},
			&cli.StringFlag{
				Name:  "schema-name",
				Usage: "Schema name",
			},
			&cli.BoolFlag{
				Name:  "pull-latest",
				Usage: "Pull the latest pipeline revision before launching",
			},
			&cli.BoolFlag{
				Name:  "stub-run",
				Usage: "Execute the workflow replacing process scripts with command stubs",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Resume the previous execution of the saved launch",
			},
			&cli.StringSliceFlag{
				Name:  "user-secret",
				Usage: "User secret name made available to the pipeline",
			},
			&cli.StringSliceFlag{
				Name:  "workspace-secret",
				Usage: "Workspace secret name made available to the pipeline",
			},
			&cli.IntSliceFlag{
				Name:  "label-id",
				Usage: "Label ID assigned to the run",
			},
			&cli.IntFlag{
				Name:  "head-job-cpus",
				Usage: "Number of CPUs allocated to the Nextflow head job",
			},
			&cli.IntFlag{
				Name:  "head-job-memory",
				Usage: "Memory in megabytes allocated to the Nextflow head job",
			},
			&cli.StringFlag{
				Name:  "optimization-id",
				Usage: "Resource optimization ID applied to the run",
			},
			&cli.StringFlag{
				Name:  "launch-container",
				Usage: "Container image used for the Nextflow head job",
			},
			&cli.StringFlag{
				Name:  "wait",
				Usage: "Wait until the workflow reaches the status, one of SUBMITTED, RUNNING, SUCCEEDED, FAILED, CANCELLED",
			},
		}...,
	)
}

func optionalString(cmd *cli.Command, name string) *string {
	if cmd.IsSet(name) {
		return pointer.Of(cmd.String(name))
	}
	return nil
}

func optionalBool(cmd *cli.Command, name string) *bool {
	if cmd.IsSet(name) {
		return pointer.Of(cmd.Bool(name))
	}
	return nil
}

func optionalInt(cmd *cli.Command, name string) *int {
	if cmd.IsSet(name) {
		return pointer.Of(int(cmd.Int(name)))
	}
	return nil
}

// optionalFile reads the file named by the flag value.
func optionalFile(cmd *cli.Command, name string) (*string, error) {
	if !cmd.IsSet(name) {
		return nil, nil
	}
	data, err := os.ReadFile(cmd.String(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read --%s file: %w", name, err)
	}
	return pointer.Of(string(data)), nil
}
