package pipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "pipeline",
		Usage:     "List saved pipelines",
		UsageText: "towerctl pipeline list [options]",
		Flags: append(helper.ClientFlags(helper.ClientFlagsWithWorkspace),
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Only show pipelines whose name matches the search term",
			},
			&cli.IntFlag{
				Name:  "max",
				Value: 100,
				Usage: "Maximum number of pipelines to return",
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

			resp, _, err := sess.Client.Pipelines().List(ctx, &api.PipelineListReq{
				WorkspaceID: ws.ID,
				Search:      cmd.String("filter"),
				Max:         int(cmd.Int("max")),
			})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(resp, func(w io.Writer) { outputPipelineList(w, resp.Pipelines) })
		},
	}
}

func outputPipelineList(w io.Writer, pipelines []*api.Pipeline) {
	if len(pipelines) == 0 {
		_, _ = fmt.Fprint(w, "No pipelines found\n")
		return
	}

	out := pterm.TableData{{"ID", "Name", "Repository", "Visibility"}}

	for _, p := range pipelines {
		out = append(out, []string{
			strconv.FormatInt(p.PipelineID, 10),
			p.Name,
			p.Repository,
			p.Visibility,
		})
	}

	helper.WriteTable(w, out)
}
