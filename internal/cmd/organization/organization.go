package organization

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

const (
	listCommandCLIErrorMsg = "failed to list organizations"
	viewCommandCLIErrorMsg = "failed to view organization"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "organization",
		Aliases:         []string{"org"},
		Usage:           "Read the organizations the authenticated user belongs to",
		HideHelpCommand: true,
		UsageText:       "towerctl organization <command> [options] [args]",
		Commands: []*cli.Command{
			listCommand(),
			viewCommand(),
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "organization",
		Usage:     "List organizations",
		UsageText: "towerctl organization list [options]",
		Flags:     helper.ClientFlags(helper.ClientFlagsWithoutWorkspace),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			sess, err := helper.NewSession(ctx, cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			resp, _, err := sess.Client.Orgs().List(ctx, &api.OrgListReq{})
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			return sess.Render(resp, func(w io.Writer) { outputOrganizationList(w, resp.Organizations) })
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "organization",
		Usage:     "Show an organization and its workspaces",
		UsageText: "towerctl organization view [options] <organization-id|name>",
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

			org, err := sess.Resolver.Organization(ctx, cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			wsResp, _, err := sess.Client.Orgs().Workspaces(ctx, &api.OrgWorkspacesReq{OrgID: org.OrgID})
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			out := struct {
				*api.Organization
				Workspaces []*api.Workspace `json:"workspaces"`
			}{org, wsResp.Workspaces}

			return sess.Render(&out, func(w io.Writer) { outputOrganization(w, org, wsResp.Workspaces) })
		},
	}
}

func outputOrganizationList(w io.Writer, orgs []*api.Organization) {
	if len(orgs) == 0 {
		_, _ = fmt.Fprint(w, "No organizations found\n")
		return
	}

	out := pterm.TableData{{"ID", "Name", "Full Name"}}

	for _, org := range orgs {
		out = append(out, []string{
			strconv.FormatInt(org.OrgID, 10),
			org.Name,
			org.FullName,
		})
	}

	helper.WriteTable(w, out)
}

func outputOrganization(w io.Writer, org *api.Organization, workspaces []*api.Workspace) {

	helper.WriteKV(w, []string{
		fmt.Sprintf("ID|%v", org.OrgID),
		fmt.Sprintf("Name|%s", org.Name),
		fmt.Sprintf("Full Name|%s", org.FullName),
		fmt.Sprintf("Description|%s", org.Description),
		fmt.Sprintf("Location|%s", org.Location),
		fmt.Sprintf("Website|%s", org.Website),
	})

	if len(workspaces) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	helper.WriteSection(w, "Workspaces")

	out := pterm.TableData{{"ID", "Name", "Full Name", "Visibility"}}

	for _, ws := range workspaces {
		out = append(out, []string{
			strconv.FormatInt(ws.ID, 10),
			ws.Name,
			ws.FullName,
			ws.Visibility,
		})
	}

	helper.WriteTable(w, out)
}
