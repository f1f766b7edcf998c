package run

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/logger"
	"github.com/nf-forge/towerctl/internal/pkg/status"
	"github.com/nf-forge/towerctl/internal/pkg/wait"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func waitCommand() *cli.Command {
	return &cli.Command{
		Name:     "wait",
		Category: "run",
		Usage:    "Block until a workflow run reaches a status",
		UsageText: "towerctl run wait [options] <workflow-id>\n\n" +
			"The command exits 0 when the status is reached and 1 when the run ends in\n" +
			"another terminal status or the wait times out.",
		Flags: append(
			append(helper.ClientFlags(helper.ClientFlagsWithWorkspace), helper.WaitFlags()...),
			&cli.StringFlag{
				Name:  "status",
				Value: api.WorkflowStatusSucceeded,
				Usage: "Status to wait for, one of SUBMITTED, RUNNING, SUCCEEDED, FAILED, CANCELLED",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			target := wait.State(strings.ToUpper(cmd.String("status")))
			if !slices.Contains(status.WorkflowStates, target) {
				return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg,
					fmt.Errorf("%w: %q", wait.ErrUnknownTarget, target)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Workspace(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg, err), 1)
			}

			id := cmd.Args().First()
			statusLogger := sess.Logger.Named(logger.ComponentNameStatus)

			res, err := sess.Wait(ctx, cmd, &wait.Request{
				ID:       id,
				Target:   target,
				States:   status.WorkflowStates,
				Terminal: status.WorkflowTerminal,
				Prober:   &status.WorkflowProber{Client: sess.Client, WorkspaceID: ws.ID, Logger: statusLogger},
				Narrator: &status.WorkflowNarrator{Client: sess.Client, WorkspaceID: ws.ID, ID: id, Logger: statusLogger},
			})
			if res == nil {
				return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg, err), 1)
			}

			if sess.JSON() {
				out := struct {
					WorkflowID string       `json:"workflowId"`
					Wait       *wait.Result `json:"wait"`
				}{id, res}
				if err := helper.WriteJSON(sess.Out(), &out); err != nil {
					return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg, err), 1)
				}
			}

			return sess.WaitExit(waitCommandCLIErrorMsg, res)
		},
	}
}
