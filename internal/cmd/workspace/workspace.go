package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/resolve"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const (
	listCommandCLIErrorMsg = "failed to list workspaces"
	viewCommandCLIErrorMsg = "failed to view workspace"
)

var errPersonalWorkspace = errors.New("the personal workspace has no organization detail")

func Command() *cli.Command {
	return &cli.Command{
		Name:            "workspace",
		Aliases:         []string{"ws"},
		Usage:           "Read the workspaces the authenticated user belongs to",
		HideHelpCommand: true,
		UsageText:       "towerctl workspace <command> [options] [args]",
		Commands: []*cli.Command{
			listCommand(),
			viewCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "workspace",
		Usage:     "List workspace memberships",
		UsageText: "towerctl workspace list [options]",
		Flags: append(helper.ClientFlags(helper.ClientFlagsWithoutWorkspace),
			&cli.StringFlag{
				Name:  "organization",
				Usage: "Only show workspaces of the organization name",
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

			all, err := memberships(ctx, sess)
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			entries := []*api.OrgAndWorkspace{}
			for _, entry := range all {
				if org := cmd.String("organization"); org == "" || entry.OrgName == org {
					entries = append(entries, entry)
				}
			}

			return sess.Render(entries, func(w io.Writer) { outputWorkspaceList(w, entries) })
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "workspace",
		Usage:     "Show the detail of a workspace",
		UsageText: "towerctl workspace view [options] <workspace-id|organization/workspace>",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithoutWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			ws, err := sess.Resolver.Workspace(ctx, cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			// A numeric reference does not say which organization owns the
			// workspace, and the detail endpoint is organization scoped.
			if ws.ID == 0 {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, errPersonalWorkspace), 1)
			}
			if ws.OrgID == 0 {
				entries, err := memberships(ctx, sess)
				if err != nil {
					return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
				}
				for _, entry := range entries {
					if entry.WorkspaceID == ws.ID {
						ws.OrgID, ws.OrgName, ws.Name = entry.OrgID, entry.OrgName, entry.WorkspaceName
						break
					}
				}
				if ws.OrgID == 0 {
					return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg,
						fmt.Errorf("%w: %q", resolve.ErrWorkspaceNotFound, cmd.Args().First())), 1)
				}
			}

			resp, _, err := sess.Client.Orgs().Workspace(ctx,
				&api.WorkspaceGetReq{OrgID: ws.OrgID, WorkspaceID: ws.ID})
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			out := struct {
				*api.Workspace
				OrgID   int64  `json:"orgId"`
				OrgName string `json:"orgName"`
			}{resp.Workspace, ws.OrgID, ws.OrgName}

			return sess.Render(&out, func(w io.Writer) { outputWorkspace(w, ws.OrgName, resp.Workspace) })
		},
	}
}

// memberships returns the workspace memberships of the authenticated user.
// Organization-only memberships carry no workspace and are left out.
func memberships(ctx context.Context, sess *helper.Session) ([]*api.OrgAndWorkspace, error) {

	userResp, _, err := sess.Client.Users().Info(ctx, &api.UserInfoReq{})
	if err != nil {
		return nil, err
	}
	if userResp.User == nil {
		return nil, errors.New("empty user info response")
	}

	wsResp, _, err := sess.Client.Users().Workspaces(ctx, &api.UserWorkspacesReq{UserID: userResp.User.ID})
	if err != nil {
		return nil, err
	}

	entries := []*api.OrgAndWorkspace{}
	for _, entry := range wsResp.OrgsAndWorkspaces {
		if entry.WorkspaceID != 0 {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func outputWorkspaceList(w io.Writer, entries []*api.OrgAndWorkspace) {
	if len(entries) == 0 {
		_, _ = fmt.Fprint(w, "No workspaces found\n")
		return
	}

	out := pterm.TableData{{"ID", "Organization", "Workspace", "Full Name", "Visibility", "Roles"}}

	for _, entry := range entries {
		out = append(out, []string{
			strconv.FormatInt(entry.WorkspaceID, 10),
			entry.OrgName,
			entry.WorkspaceName,
			entry.WorkspaceFullName,
			entry.Visibility,
			strings.Join(entry.Roles, ", "),
		})
	}

	helper.WriteTable(w, out)
}

func outputWorkspace(w io.Writer, orgName string, ws *api.Workspace) {
	helper.WriteKV(w, []string{
		fmt.Sprintf("ID|%v", ws.ID),
		fmt.Sprintf("Organization|%s", orgName),
		fmt.Sprintf("Name|%s", ws.Name),
		fmt.Sprintf("Full Name|%s", ws.FullName),
		fmt.Sprintf("Description|%s", ws.Description),
		fmt.Sprintf("Visibility|%s", ws.Visibility),
		fmt.Sprintf("Create Time|%s", helper.FormatTime(ws.DateCreated)),
		fmt.Sprintf("Last Updated|%s", helper.FormatTime(ws.LastUpdated)),
	})
}
