package run

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Category:  "run",
		Usage:     "Delete a workflow run and its metadata",
		UsageText: "towerctl run delete [options] <workflow-id>",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Workspace(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			id := cmd.Args().First()

			if _, err := sess.Client.Workflows().Delete(ctx,
				&api.WorkflowDeleteReq{ID: id, WorkspaceID: ws.ID}); err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(
				map[string]string{"workflowId": id, "message": "deleted"},
				func(w io.Writer) { helper.WriteKV(w, []string{fmt.Sprintf("Message|Workflow run %s deleted", id)}) },
			)
		},
	}
}
