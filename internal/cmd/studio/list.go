package studio

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
		Category:  "studio",
		Usage:     "List the studios of a workspace",
		UsageText: "towerctl studio list [options]",
		Flags: append(helper.ClientFlags(helper.ClientFlagsWithWorkspace),
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Only show studios whose name matches the search term",
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

			resp, _, err := sess.Client.Studios().List(ctx,
				&api.StudioListReq{WorkspaceID: ws.ID, Search: cmd.String("filter")})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(resp, func(w io.Writer) { outputStudioList(w, resp.Studios) })
		},
	}
}

func outputStudioList(w io.Writer, studios []*api.Studio) {
	if len(studios) == 0 {
		_, _ = fmt.Fprint(w, "No studios found\n")
		return
	}

	out := pterm.TableData{{"Session ID", "Name", "Status", "User", "Last Started"}}

	for _, s := range studios {
		var user string
		if s.User != nil {
			user = s.User.UserName
		}
		out = append(out, []string{
			s.SessionID,
			s.Name,
			colouredStudioStatus(studioStatus(s)),
			user,
			helper.FormatTime(s.LastStarted),
		})
	}

	helper.WriteTable(w, out)
}
