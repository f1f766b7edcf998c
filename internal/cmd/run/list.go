package run

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "run",
		Usage:     "List workflow runs of a workspace",
		UsageText: "towerctl run list [options]",
		Flags: append(helper.ClientFlags(helper.ClientFlagsWithWorkspace),
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Only show runs whose name, project or user matches the search term",
			},
			&cli.IntFlag{
				Name:  "max",
				Value: 100,
				Usage: "Maximum number of runs to return",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Number of runs to skip",
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

			resp, _, err := sess.Client.Workflows().List(ctx, &api.WorkflowListReq{
				WorkspaceID: ws.ID,
				Search:      cmd.String("filter"),
				Max:         int(cmd.Int("max")),
				Offset:      int(cmd.Int("offset")),
			})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(resp, func(w io.Writer) { outputWorkflowList(w, resp.Workflows) })
		},
	}
}

func outputWorkflowList(w io.Writer, workflows []*api.WorkflowListElement) {
	if len(workflows) == 0 {
		_, _ = fmt.Fprint(w, "No runs found\n")
		return
	}

	out := pterm.TableData{{"ID", "Status", "Project", "Run Name", "User", "Submitted"}}

	for _, elem := range workflows {
		if elem.Workflow == nil {
			continue
		}
		out = append(out, []string{
			elem.Workflow.ID,
			colouredWorkflowStatus(elem.Workflow.Status),
			elem.Workflow.ProjectName,
			elem.Workflow.RunName,
			elem.Workflow.UserName,
			helper.FormatTime(elem.Workflow.Submit),
		})
	}

	helper.WriteTable(w, out)
}
