package launch

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hashicorp/nomad/helper/pointer"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/launch"
	"github.com/nf-forge/towerctl/internal/pkg/logger"
	"github.com/nf-forge/towerctl/internal/pkg/params"
	"github.com/nf-forge/towerctl/internal/pkg/status"
	"github.com/nf-forge/towerctl/internal/pkg/wait"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const (
	launchCommandCLIErrorMsg = "failed to launch workflow"
	waitCommandCLIErrorMsg   = "workflow did not reach the requested status"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "launch",
		Usage: "Launch a saved pipeline or a pipeline repository",
		UsageText: strings.TrimSpace(`
towerctl launch [options] <pipeline-name|repository-url>

A saved pipeline is launched with its stored configuration; every flag given
replaces the stored value. A repository URL is launched on the primary
compute environment unless --compute-env is set.`),
		Flags: launchFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			var waitTarget wait.State
			if cmd.IsSet("wait") {
				waitTarget = wait.State(strings.ToUpper(cmd.String("wait")))
				if !slices.Contains(status.WorkflowStates, waitTarget) {
					return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg,
						fmt.Errorf("%w: %q", wait.ErrUnknownTarget, waitTarget)), 1)
				}
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Workspace(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
			}

			overrides, err := overridesFromCLI(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
			}

			pipelineRef := cmd.Args().First()

			var base *api.Launch

			// A repository URL has no stored launch, so the compute
			// environment falls back to the workspace primary.
			if launch.IsPipelineURL(pipelineRef) {
				overrides.Pipeline = pointer.Of(pipelineRef)
			} else {
				pipeline, err := sess.Resolver.Pipeline(ctx, ws.ID, pipelineRef)
				if err != nil {
					return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
				}

				launchResp, _, err := sess.Client.Pipelines().Launch(ctx,
					&api.PipelineLaunchReq{ID: pipeline.PipelineID, WorkspaceID: ws.ID})
				if err != nil {
					return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
				}
				base = launchResp.Launch
			}

			if ceRef := cmd.String("compute-env"); ceRef != "" || base == nil || base.ComputeEnv == nil {
				ce, err := sess.Resolver.ComputeEnv(ctx, ws.ID, ceRef)
				if err != nil {
					return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
				}
				overrides.ComputeEnv = ce
			}

			launchReq, err := launch.Merge(base, overrides)
			if err != nil {
				return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
			}

			resp, _, err := sess.Client.Workflows().Launch(ctx,
				&api.WorkflowLaunchReq{WorkspaceID: ws.ID, Launch: launchReq})
			if err != nil {
				return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
			}

			out := launchOutput{
				WorkflowID:  resp.WorkflowID,
				WorkspaceID: ws.ID,
				Workspace:   ws.Ref(),
				Pipeline:    launchReq.Pipeline,
				URL:         workflowURL(sess.Client.Address(), ws.ID, resp.WorkflowID),
			}

			if waitTarget == "" {
				return sess.Render(&out, out.table)
			}

			if !sess.JSON() {
				out.table(sess.Out())
			}

			res, err := sess.Wait(ctx, cmd, &wait.Request{
				ID:       resp.WorkflowID,
				Target:   waitTarget,
				States:   status.WorkflowStates,
				Terminal: status.WorkflowTerminal,
				Prober: &status.WorkflowProber{
					Client:      sess.Client,
					WorkspaceID: ws.ID,
					Logger:      sess.Logger.Named(logger.ComponentNameStatus),
				},
				Narrator: &status.WorkflowNarrator{
					Client:      sess.Client,
					WorkspaceID: ws.ID,
					ID:          resp.WorkflowID,
					Logger:      sess.Logger.Named(logger.ComponentNameStatus),
				},
			})
			if res == nil {
				return cli.Exit(helper.FormatError(waitCommandCLIErrorMsg, err), 1)
			}

			if sess.JSON() {
				out.Wait = res
				if err := helper.WriteJSON(sess.Out(), &out); err != nil {
					return cli.Exit(helper.FormatError(launchCommandCLIErrorMsg, err), 1)
				}
			}

			return sess.WaitExit(waitCommandCLIErrorMsg, res)
		},
	}
}

type launchOutput struct {
	WorkflowID  string       `json:"workflowId"`
	WorkspaceID int64        `json:"workspaceId"`
	Workspace   string       `json:"workspace"`
	Pipeline    string       `json:"pipeline"`
	URL         string       `json:"url"`
	Wait        *wait.Result `json:"wait,omitempty"`
}

func (l *launchOutput) table(w io.Writer) {
	helper.WriteKV(w, []string{
		"Message|Workflow submitted",
		fmt.Sprintf("Workflow ID|%s", l.WorkflowID),
		fmt.Sprintf("Workspace|%s", l.Workspace),
		fmt.Sprintf("Pipeline|%s", l.Pipeline),
		fmt.Sprintf("URL|%s", l.URL),
	})
}

// workflowURL builds the web interface link of a run from the API endpoint,
// which for hosted and most self-hosted installs is the web address with an
// "api." host prefix or an "/api" path suffix.
func workflowURL(apiAddress string, workspaceID int64, workflowID string) string {

	web := strings.TrimSuffix(apiAddress, "/")
	web = strings.TrimSuffix(web, "/api")
	web = strings.Replace(web, "://api.", "://", 1)

	if workspaceID == 0 {
		return fmt.Sprintf("%s/user/watch/%s", web, workflowID)
	}
	return fmt.Sprintf("%s/workspace/%d/watch/%s", web, workspaceID, workflowID)
}

func overridesFromCLI(cmd *cli.Command) (*launch.Overrides, error) {

	o := launch.Overrides{
		RunName:         optionalString(cmd, "name"),
		WorkDir:         optionalString(cmd, "work-dir"),
		Revision:        optionalString(cmd, "revision"),
		MainScript:      optionalString(cmd, "main-script"),
		EntryName:       optionalString(cmd, "entry-name"),
		SchemaName:      optionalString(cmd, "schema-name"),
		OptimizationID:  optionalString(cmd, "optimization-id"),
		LaunchContainer: optionalString(cmd, "launch-container"),
		PullLatest:      optionalBool(cmd, "pull-latest"),
		StubRun:         optionalBool(cmd, "stub-run"),
		Resume:          optionalBool(cmd, "resume"),
		HeadJobCpus:     optionalInt(cmd, "head-job-cpus"),
		HeadJobMemoryMb: optionalInt(cmd, "head-job-memory"),
	}

	if cmd.IsSet("profile-name") {
		o.ConfigProfiles = splitList(cmd.StringSlice("profile-name"))
	}
	if cmd.IsSet("user-secret") {
		o.UserSecrets = splitList(cmd.StringSlice("user-secret"))
	}
	if cmd.IsSet("workspace-secret") {
		o.WorkspaceSecrets = splitList(cmd.StringSlice("workspace-secret"))
	}
	if cmd.IsSet("label-id") {
		o.LabelIDs = cmd.IntSlice("label-id")
	}

	var err error

	if o.ConfigText, err = optionalFile(cmd, "nextflow-config"); err != nil {
		return nil, err
	}
	if o.PreRunScript, err = optionalFile(cmd, "pre-run"); err != nil {
		return nil, err
	}
	if o.PostRunScript, err = optionalFile(cmd, "post-run"); err != nil {
		return nil, err
	}

	if path := cmd.String("params-file"); path != "" {
		if o.Params, err = params.Load(path); err != nil {
			return nil, err
		}
	}

	for _, kv := range cmd.StringSlice("param") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter format: %s, expected key=value", kv)
		}
		if o.Params == nil {
			o.Params = map[string]any{}
		}
		o.Params = params.Merge(o.Params, nestedParam(strings.Split(key, "."), value))
	}

	return &o, nil
}

// nestedParam expands a dotted key such as "aligner.threads" into nested
// maps, so it can be merged into the stored parameters.
func nestedParam(path []string, value string) map[string]any {
	if len(path) == 1 {
		return map[string]any{path[0]: value}
	}
	return map[string]any{path[0]: nestedParam(path[1:], value)}
}

func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
