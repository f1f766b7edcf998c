package run

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "run",
		Usage:     "Show the detail and task progress of a workflow run",
		UsageText: "towerctl run view [options] <workflow-id>",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Workspace(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			resp, _, err := sess.Client.Workflows().Get(ctx,
				&api.WorkflowGetReq{ID: cmd.Args().First(), WorkspaceID: ws.ID})
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			// The get endpoint does not always embed progress, so fetch it
			// separately. Runs that never started have none to show.
			if resp.Progress == nil {
				progResp, _, err := sess.Client.Workflows().Progress(ctx,
					&api.WorkflowProgressReq{ID: cmd.Args().First(), WorkspaceID: ws.ID})
				if err == nil {
					resp.Progress = progResp.Progress
				}
			}

			return sess.Render(resp, func(w io.Writer) { outputWorkflow(w, resp) })
		},
	}
}

func outputWorkflow(w io.Writer, resp *api.WorkflowGetResp) {

	wf := resp.Workflow
	if wf == nil {
		_, _ = fmt.Fprint(w, "No run found\n")
		return
	}

	exitStatus := "N/A"
	if wf.ExitStatus != nil {
		exitStatus = strconv.Itoa(*wf.ExitStatus)
	}

	kv := []string{
		fmt.Sprintf("ID|%s", wf.ID),
		fmt.Sprintf("Run Name|%s", wf.RunName),
		fmt.Sprintf("Status|%s", colouredWorkflowStatus(wf.Status)),
		fmt.Sprintf("Project|%s", wf.ProjectName),
		fmt.Sprintf("Repository|%s", wf.Repository),
		fmt.Sprintf("Revision|%s", wf.Revision),
		fmt.Sprintf("Work Dir|%s", wf.WorkDir),
		fmt.Sprintf("User|%s", wf.UserName),
		fmt.Sprintf("Resumed|%v", wf.Resume),
		fmt.Sprintf("Exit Status|%s", exitStatus),
		fmt.Sprintf("Duration|%s", helper.FormatMillis(wf.Duration)),
		fmt.Sprintf("Submit Time|%s", helper.FormatTime(wf.Submit)),
		fmt.Sprintf("Start Time|%s", helper.FormatTime(wf.Start)),
		fmt.Sprintf("Complete Time|%s", helper.FormatTime(wf.Complete)),
	}
	if wf.ErrorMessage != "" {
		kv = append(kv, fmt.Sprintf("Error|%s", wf.ErrorMessage))
	}
	if len(wf.ConfigFiles) > 0 {
		kv = append(kv, fmt.Sprintf("Config Files|%s", strings.Join(wf.ConfigFiles, ", ")))
	}

	helper.WriteKV(w, kv)

	if resp.Progress == nil || len(resp.Progress.ProcessesProgress) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	helper.WriteSection(w, "Processes")

	out := pterm.TableData{{"Process", "Pending", "Submitted", "Running", "Succeeded", "Failed", "Cached"}}

	for _, p := range resp.Progress.ProcessesProgress {
		out = append(out, []string{
			p.Process,
			strconv.Itoa(p.Pending),
			strconv.Itoa(p.Submitted),
			strconv.Itoa(p.Running),
			strconv.Itoa(p.Succeeded),
			strconv.Itoa(p.Failed),
			strconv.Itoa(p.Cached),
		})
	}

	helper.WriteTable(w, out)
}
