package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "pipeline",
		Usage:     "Show a saved pipeline and its launch configuration",
		UsageText: "towerctl pipeline view [options] <pipeline-id|name>",
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

			pipeline, err := sess.Resolver.Pipeline(ctx, ws.ID, cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			launchResp, _, err := sess.Client.Pipelines().Launch(ctx,
				&api.PipelineLaunchReq{ID: pipeline.PipelineID, WorkspaceID: ws.ID})
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			out := struct {
				*api.Pipeline
				Launch *api.Launch `json:"launch,omitempty"`
			}{pipeline, launchResp.Launch}

			return sess.Render(&out, func(w io.Writer) { outputPipeline(w, pipeline, launchResp.Launch) })
		},
	}
}

func outputPipeline(w io.Writer, p *api.Pipeline, l *api.Launch) {

	helper.WriteKV(w, []string{
		fmt.Sprintf("ID|%v", p.PipelineID),
		fmt.Sprintf("Name|%s", p.Name),
		fmt.Sprintf("Description|%s", p.Description),
		fmt.Sprintf("Repository|%s", p.Repository),
		fmt.Sprintf("Owner|%s", p.UserName),
		fmt.Sprintf("Visibility|%s", p.Visibility),
		fmt.Sprintf("Last Updated|%s", helper.FormatTime(p.LastUpdated)),
	})

	if l == nil {
		return
	}

	var computeEnv string
	if l.ComputeEnv != nil {
		computeEnv = l.ComputeEnv.Name
	}

	_, _ = fmt.Fprintln(w)
	helper.WriteSection(w, "Launch")
	helper.WriteKV(w, []string{
		fmt.Sprintf("Compute Env|%s", computeEnv),
		fmt.Sprintf("Work Dir|%s", l.WorkDir),
		fmt.Sprintf("Revision|%s", l.Revision),
		fmt.Sprintf("Profiles|%s", strings.Join(l.ConfigProfiles, ", ")),
		fmt.Sprintf("Pull Latest|%v", l.PullLatest != nil && *l.PullLatest),
		fmt.Sprintf("Stub Run|%v", l.StubRun != nil && *l.StubRun),
	})

	if l.ParamsText != "" {
		_, _ = fmt.Fprintln(w)
		helper.WriteSection(w, "Parameters")
		_, _ = fmt.Fprintln(w, strings.TrimSpace(l.ParamsText))
	}
}
