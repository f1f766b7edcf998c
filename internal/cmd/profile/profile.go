package profile

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/config"
)

const (
	deleteCommandCLIErrorMsg = "failed to delete profile"
	listCommandCLIErrorMsg   = "failed to list profiles"
	setCommandCLIErrorMsg    = "failed to set profile"
	useCommandCLIErrorMsg    = "failed to switch profile"
	viewCommandCLIErrorMsg   = "failed to view profile"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:            "profile",
		Usage:           "Manage the connection profiles of the configuration file",
		HideHelpCommand: true,
		UsageText:       "towerctl profile <command> [options] [args]",
		Commands: []*cli.Command{
			deleteCommand(),
			listCommand(),
			setCommand(),
			useCommand(),
			viewCommand(),
		},
	}
}

// profileOutput is the rendered form of a profile. The token itself is never
// printed.
type profileOutput struct {
	Name      string `json:"name"`
	Current   bool   `json:"current"`
	URL       string `json:"url,omitempty"`
	Workspace string `json:"workspace,omitempty"`
	HasToken  bool   `json:"hasToken"`
}

func newProfileOutput(cfg *config.Config, p *config.Profile) *profileOutput {
	return &profileOutput{
		Name:      p.Name,
		Current:   cfg.CurrentProfile == p.Name,
		URL:       p.URL,
		Workspace: p.Workspace,
		HasToken:  p.Token != "",
	}
}

func (p *profileOutput) table(w io.Writer) {
	helper.WriteKV(w, []string{
		fmt.Sprintf("Name|%s", p.Name),
		fmt.Sprintf("Current|%v", p.Current),
		fmt.Sprintf("URL|%s", p.URL),
		fmt.Sprintf("Workspace|%s", p.Workspace),
		fmt.Sprintf("Token|%s", maskedToken(p.HasToken)),
	})
}

func outputProfileList(w io.Writer, profiles []*profileOutput) {
	if len(profiles) == 0 {
		_, _ = fmt.Fprint(w, "No profiles found\n")
		return
	}

	out := pterm.TableData{{"Name", "Current", "URL", "Workspace", "Token"}}

	for _, p := range profiles {
		var current string
		if p.Current {
			current = "*"
		}
		out = append(out, []string{
			p.Name,
			current,
			p.URL,
			p.Workspace,
			maskedToken(p.HasToken),
		})
	}

	helper.WriteTable(w, out)
}

func maskedToken(set bool) string {
	if set {
		return "<set>"
	}
	return ""
}
