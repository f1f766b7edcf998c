package studio

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "studio",
		Usage:     "Show the detail of a studio",
		UsageText: "towerctl studio view [options] <session-id|name>",
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

			studio, err := sess.Resolver.Studio(ctx, ws.ID, cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(studio, func(w io.Writer) { outputStudio(w, studio) })
		},
	}
}

func outputStudio(w io.Writer, s *api.Studio) {

	kv := []string{
		fmt.Sprintf("Session ID|%s", s.SessionID),
		fmt.Sprintf("Name|%s", s.Name),
		fmt.Sprintf("Description|%s", s.Description),
		fmt.Sprintf("Status|%s", colouredStudioStatus(studioStatus(s))),
	}
	if s.StatusInfo != nil && s.StatusInfo.Message != "" {
		kv = append(kv, fmt.Sprintf("Status Message|%s", s.StatusInfo.Message))
	}
	if s.User != nil {
		kv = append(kv, fmt.Sprintf("User|%s", s.User.UserName))
	}
	if s.ComputeEnv != nil {
		kv = append(kv, fmt.Sprintf("Compute Env|%s (%s)", s.ComputeEnv.Name, s.ComputeEnv.Platform))
	}
	if s.Template != nil {
		kv = append(kv, fmt.Sprintf("Template|%s", s.Template.Repository))
	}

	kv = append(kv,
		fmt.Sprintf("URL|%s", s.StudioURL),
		fmt.Sprintf("Create Time|%s", helper.FormatTime(s.DateCreated)),
		fmt.Sprintf("Last Started|%s", helper.FormatTime(s.LastStarted)),
	)

	helper.WriteKV(w, kv)
}
