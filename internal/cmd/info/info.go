package info

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/version"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const infoCommandCLIErrorMsg = "failed to read platform info"

type infoOutput struct {
	Endpoint      string           `json:"endpoint"`
	Profile       string           `json:"profile,omitempty"`
	ClientVersion string           `json:"clientVersion"`
	Service       *api.ServiceInfo `json:"service,omitempty"`
	User          *api.User        `json:"user"`
	Workspace     string           `json:"workspace"`
}

func Command() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show the connection settings, platform version and authenticated user",
		UsageText: "towerctl info [options]",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(infoCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(infoCommandCLIErrorMsg, err), 1)
			}

			userResp, _, err := sess.Client.Users().Info(ctx, &api.UserInfoReq{})
			if err != nil {
				return cli.Exit(helper.FormatError(infoCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Workspace(ctx)
			if err != nil {
				return cli.Exit(helper.FormatError(infoCommandCLIErrorMsg, err), 1)
			}

			out := infoOutput{
				Endpoint:      sess.Client.Address(),
				Profile:       sess.Profile.Name,
				ClientVersion: version.Get(),
				User:          userResp.User,
				Workspace:     ws.Ref(),
			}

			// Older installs do not expose the service info endpoint.
			if svcResp, _, err := sess.Client.Service().Info(ctx); err == nil {
				out.Service = svcResp.ServiceInfo
			} else {
				sess.Logger.Debug("failed to read service info", zap.Error(err))
			}

			return sess.Render(&out, out.table)
		},
	}
}

func (i *infoOutput) table(w io.Writer) {

	kv := []string{
		fmt.Sprintf("Endpoint|%s", i.Endpoint),
		fmt.Sprintf("Profile|%s", i.Profile),
		fmt.Sprintf("Client Version|%s", i.ClientVersion),
	}
	if i.Service != nil {
		kv = append(kv,
			fmt.Sprintf("Platform Version|%s", i.Service.Version),
			fmt.Sprintf("API Version|%s", i.Service.APIVersion),
		)
	}
	if i.User != nil {
		kv = append(kv,
			fmt.Sprintf("User|%s", i.User.UserName),
			fmt.Sprintf("Email|%s", i.User.Email),
		)
	}
	kv = append(kv, fmt.Sprintf("Workspace|%s", i.Workspace))

	helper.WriteKV(w, kv)
}
