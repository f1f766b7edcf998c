package computeenv

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const (
	listCommandCLIErrorMsg    = "failed to list compute environments"
	primaryCommandCLIErrorMsg = "failed to get primary compute environment"
	viewCommandCLIErrorMsg    = "failed to view compute environment"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "compute-env",
		Aliases:         []string{"ce"},
		Usage:           "Read the compute environments of a workspace",
		HideHelpCommand: true,
		UsageText:       "towerctl compute-env <command> [options] [args]",
		Commands: []*cli.Command{
			listCommand(),
			primaryCommand(),
			viewCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "compute-env",
		Usage:     "List compute environments",
		UsageText: "towerctl compute-env list [options]",
		Flags: append(helper.ClientFlags(helper.ClientFlagsWithWorkspace),
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only show compute environments with the status, for example AVAILABLE",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Workspace(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			resp, _, err := sess.Client.ComputeEnvs().List(ctx,
				&api.ComputeEnvListReq{WorkspaceID: ws.ID, Status: cmd.String("status")})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(resp, func(w io.Writer) { outputComputeEnvList(w, resp.ComputeEnvs) })
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "compute-env",
		Usage:     "Show the detail of a compute environment",
		UsageText: "towerctl compute-env view [options] <compute-env-id|name>",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			return computeEnvAction(ctx, cmd, viewCommandCLIErrorMsg, cmd.Args().First())
		},
	}
}

func primaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "primary",
		Category:  "compute-env",
		Usage:     "Show the compute environment used when a launch does not name one",
		UsageText: "towerctl compute-env primary [options]",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(primaryCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			return computeEnvAction(ctx, cmd, primaryCommandCLIErrorMsg, "")
		},
	}
}

// computeEnvAction resolves ref, the primary compute environment when
// empty, and renders its detail.
func computeEnvAction(ctx context.Context, cmd *cli.Command, cliErrorMsg, ref string) error {

	sess, err := helper.NewSession(ctx, cmd)
	if err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	ws, err := sess.Workspace(ctx)
	if err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	ce, err := sess.Resolver.ComputeEnv(ctx, ws.ID, ref)
	if err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	return sess.Render(ce, func(w io.Writer) { outputComputeEnv(w, ce) })
}

func outputComputeEnvList(w io.Writer, envs []*api.ComputeEnv) {
	if len(envs) == 0 {
		_, _ = fmt.Fprint(w, "No compute environments found\n")
		return
	}

	out := pterm.TableData{{"ID", "Name", "Platform", "Status", "Primary", "Last Used"}}

	for _, ce := range envs {
		var primary string
		if ce.Primary {
			primary = "*"
		}
		out = append(out, []string{
			ce.ID,
			ce.Name,
			ce.Platform,
			colouredComputeEnvStatus(ce.Status),
			primary,
			helper.FormatTime(ce.LastUsed),
		})
	}

	helper.WriteTable(w, out)
}

func outputComputeEnv(w io.Writer, ce *api.ComputeEnv) {

	kv := []string{
		fmt.Sprintf("ID|%s", ce.ID),
		fmt.Sprintf("Name|%s", ce.Name),
		fmt.Sprintf("Platform|%s", ce.Platform),
		fmt.Sprintf("Status|%s", colouredComputeEnvStatus(ce.Status)),
		fmt.Sprintf("Primary|%v", ce.Primary),
		fmt.Sprintf("Last Used|%s", helper.FormatTime(ce.LastUsed)),
	}
	if ce.Message != "" {
		kv = append(kv, fmt.Sprintf("Message|%s", ce.Message))
	}
	if ce.Config != nil {
		kv = append(kv, fmt.Sprintf("Work Dir|%s", ce.Config.WorkDir))
	}

	helper.WriteKV(w, kv)
}

func colouredComputeEnvStatus(status string) string {
	switch status {
	case api.ComputeEnvStatusCreating:
		return pterm.Yellow(status)
	case api.ComputeEnvStatusAvailable:
		return pterm.Green(status)
	case api.ComputeEnvStatusErrored, api.ComputeEnvStatusInvalid:
		return pterm.Red(status)
	default:
		return pterm.White(status)
	}
}
