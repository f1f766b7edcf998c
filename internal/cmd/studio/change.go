package studio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/logger"
	"github.com/nf-forge/towerctl/internal/pkg/status"
	"github.com/nf-forge/towerctl/internal/pkg/wait"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

var errNotSubmitted = errors.New("the platform did not accept the request")

func startCommand() *cli.Command {
	return &cli.Command{
		Name:      "start",
		Category:  "studio",
		Usage:     "Start a stopped studio",
		UsageText: "towerctl studio start [options] <session-id|name>",
		Flags: append(changeFlags(),
			&cli.StringFlag{
				Name:  "description",
				Usage: "Description recorded against this start of the studio",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return changeAction(ctx, cmd, &change{
				cliErrorMsg: startCommandCLIErrorMsg,
				message:     "Studio start submitted",
				target:      api.StudioStatusRunning,
				terminal:    status.StudioStartTerminal,
				do: func(ctx context.Context, sess *helper.Session, ws int64, id string) (*api.StudioStateChangeResp, error) {
					resp, _, err := sess.Client.Studios().Start(ctx, &api.StudioStartReq{
						SessionID:   id,
						WorkspaceID: ws,
						Description: cmd.String("description"),
					})
					return resp, err
				},
			})
		},
	}
}

func stopCommand() *cli.Command {
	return &cli.Command{
		Name:      "stop",
		Category:  "studio",
		Usage:     "Stop a running studio",
		UsageText: "towerctl studio stop [options] <session-id|name>",
		Flags:     changeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return changeAction(ctx, cmd, &change{
				cliErrorMsg: stopCommandCLIErrorMsg,
				message:     "Studio stop submitted",
				target:      api.StudioStatusStopped,
				terminal:    status.StudioStopTerminal,
				do: func(ctx context.Context, sess *helper.Session, ws int64, id string) (*api.StudioStateChangeResp, error) {
					resp, _, err := sess.Client.Studios().Stop(ctx,
						&api.StudioStopReq{SessionID: id, WorkspaceID: ws})
					return resp, err
				},
			})
		},
	}
}

func changeFlags() []cli.Flag {
	return append(
		append(helper.ClientFlags(helper.ClientFlagsWithWorkspace), helper.WaitFlags()...),
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "Wait until the studio reaches the requested state",
		},
	)
}

// change describes a studio state change request and the state a wait on
// it targets.
type change struct {
	cliErrorMsg string
	message     string
	target      wait.State
	terminal    []wait.State
	do          func(ctx context.Context, sess *helper.Session, workspaceID int64, sessionID string) (*api.StudioStateChangeResp, error)
}

type changeOutput struct {
	SessionID    string       `json:"sessionId"`
	Name         string       `json:"name"`
	JobSubmitted bool         `json:"jobSubmitted"`
	Status       string       `json:"status,omitempty"`
	Wait         *wait.Result `json:"wait,omitempty"`
}

func changeAction(ctx context.Context, cmd *cli.Command, c *change) error {

	if numArgs := cmd.Args().Len(); numArgs != 1 {
		return cli.Exit(helper.FormatError(c.cliErrorMsg,
			fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
	}

	sess, err := helper.NewSession(ctx, cmd)
	if err != nil {
		return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
	}

	ws, err := sess.Workspace(ctx)
	if err != nil {
		return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
	}

	studio, err := sess.Resolver.Studio(ctx, ws.ID, cmd.Args().First())
	if err != nil {
		return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
	}

	resp, err := c.do(ctx, sess, ws.ID, studio.SessionID)
	if err != nil {
		return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
	}

	out := changeOutput{
		SessionID:    studio.SessionID,
		Name:         studio.Name,
		JobSubmitted: resp.JobSubmitted,
	}
	if resp.StatusInfo != nil {
		out.Status = resp.StatusInfo.Status
	}

	table := func(w io.Writer) {
		msg := c.message
		if !resp.JobSubmitted {
			msg = errNotSubmitted.Error()
		}
		helper.WriteKV(w, []string{
			fmt.Sprintf("Message|%s", msg),
			fmt.Sprintf("Session ID|%s", out.SessionID),
			fmt.Sprintf("Name|%s", out.Name),
			fmt.Sprintf("Status|%s", colouredStudioStatus(out.Status)),
		})
	}

	if !cmd.Bool("wait") {
		if err := sess.Render(&out, table); err != nil {
			return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
		}
		if !resp.JobSubmitted {
			return cli.Exit(helper.FormatError(c.cliErrorMsg, errNotSubmitted), 1)
		}
		return nil
	}

	if !sess.JSON() {
		table(sess.Out())
	}

	statusLogger := sess.Logger.Named(logger.ComponentNameStatus)

	// A change the platform rejected is never polled; the wait reports it
	// as skipped and the command keeps its failure status.
	priorExitCode := 0
	if !resp.JobSubmitted {
		priorExitCode = 1
	}

	res, err := sess.Wait(ctx, cmd, &wait.Request{
		ID:               studio.SessionID,
		Target:           c.target,
		States:           status.StudioStates,
		Terminal:         c.terminal,
		Prober:           &status.StudioProber{Client: sess.Client, WorkspaceID: ws.ID, Logger: statusLogger},
		Narrator:         &status.StudioNarrator{Client: sess.Client, WorkspaceID: ws.ID, SessionID: studio.SessionID, Logger: statusLogger},
		SubmissionFailed: !resp.JobSubmitted,
		PriorExitCode:    priorExitCode,
	})
	if res == nil {
		return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
	}

	if sess.JSON() {
		out.Wait = res
		if err := helper.WriteJSON(sess.Out(), &out); err != nil {
			return cli.Exit(helper.FormatError(c.cliErrorMsg, err), 1)
		}
	}

	return sess.WaitExit(c.cliErrorMsg, res)
}
