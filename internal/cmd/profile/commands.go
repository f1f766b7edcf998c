package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/nf-forge/towerctl/internal/cmd/helper"
	"github.com/nf-forge/towerctl/internal/pkg/config"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Category:  "profile",
		Usage:     "List configured profiles",
		UsageText: "towerctl profile list [options]",
		Flags:     helper.ConfigFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 0 {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg,
					fmt.Errorf("expected 0 arguments, got %v", numArgs)), 1)
			}

			jsonMode, err := helper.JSONOutput(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			cfg, _, err := helper.LoadConfig(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(listCommandCLIErrorMsg, err), 1)
			}

			out := make([]*profileOutput, 0, len(cfg.Profiles))
			for _, p := range cfg.Profiles {
				out = append(out, newProfileOutput(cfg, p))
			}

			return helper.Render(cmd.Root().Writer, jsonMode, out, func(w io.Writer) { outputProfileList(w, out) })
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Category:  "profile",
		Usage:     "Show a profile, the current one when no name is given",
		UsageText: "towerctl profile view [options] [name]",
		Flags:     helper.ConfigFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs > 1 {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg,
					fmt.Errorf("expected at most 1 argument, got %v", numArgs)), 1)
			}

			jsonMode, err := helper.JSONOutput(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			cfg, _, err := helper.LoadConfig(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}

			p, err := cfg.Profile(cmd.Args().First())
			if err != nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg, err), 1)
			}
			if p == nil {
				return cli.Exit(helper.FormatError(viewCommandCLIErrorMsg,
					errors.New("no current profile set")), 1)
			}

			out := newProfileOutput(cfg, p)
			return helper.Render(cmd.Root().Writer, jsonMode, out, out.table)
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:     "set",
		Category: "profile",
		Usage:    "Create a profile or update the settings of an existing one",
		UsageText: "towerctl profile set [options] <name>\n\n" +
			"Only the settings passed as flags are changed.",
		Flags: append(helper.ConfigFlags(),
			&cli.StringFlag{
				Name:  "url",
				Usage: "Platform API endpoint of the profile",
			},
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Personal access token of the profile",
			},
			&cli.StringFlag{
				Name:    "workspace",
				Aliases: []string{"w"},
				Usage:   "Default workspace ID or organization/workspace name of the profile",
			},
			&cli.BoolFlag{
				Name:  "use",
				Usage: "Also make the profile the current one",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(setCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			return updateConfig(cmd, setCommandCLIErrorMsg, func(cfg *config.Config, name string) error {
				if err := cfg.SetProfile(&config.Profile{
					Name:      name,
					URL:       cmd.String("url"),
					Token:     cmd.String("token"),
					Workspace: cmd.String("workspace"),
				}); err != nil {
					return err
				}

				// The first profile becomes current, so a fresh install works
				// without an extra "profile use".
				if cmd.Bool("use") || cfg.CurrentProfile == "" {
					return cfg.UseProfile(name)
				}
				return nil
			})
		},
	}
}

func useCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Category:  "profile",
		Usage:     "Make a profile the current one",
		UsageText: "towerctl profile use [options] <name>",
		Flags:     helper.ConfigFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(useCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			return updateConfig(cmd, useCommandCLIErrorMsg, func(cfg *config.Config, name string) error {
				return cfg.UseProfile(name)
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Category:  "profile",
		Usage:     "Delete a profile",
		UsageText: "towerctl profile delete [options] <name>",
		Flags:     helper.ConfigFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {

			if numArgs := cmd.Args().Len(); numArgs != 1 {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg,
					fmt.Errorf("expected 1 argument, got %v", numArgs)), 1)
			}

			jsonMode, err := helper.JSONOutput(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			cfg, path, err := helper.LoadConfig(cmd)
			if err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			name := cmd.Args().First()

			if err := cfg.DeleteProfile(name); err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}
			if err := cfg.Save(path); err != nil {
				return cli.Exit(helper.FormatError(deleteCommandCLIErrorMsg, err), 1)
			}

			return helper.Render(cmd.Root().Writer, jsonMode,
				map[string]string{"name": name, "message": "deleted"},
				func(w io.Writer) { helper.WriteKV(w, []string{fmt.Sprintf("Message|Profile %s deleted", name)}) },
			)
		},
	}
}

// updateConfig loads the configuration, applies fn to the profile named by
// the first argument, saves the file and renders the resulting profile.
func updateConfig(cmd *cli.Command, cliErrorMsg string, fn func(cfg *config.Config, name string) error) error {

	jsonMode, err := helper.JSONOutput(cmd)
	if err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	cfg, path, err := helper.LoadConfig(cmd)
	if err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	name := cmd.Args().First()

	if err := fn(cfg, name); err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}
	if err := cfg.Save(path); err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	p, err := cfg.Profile(name)
	if err != nil {
		return cli.Exit(helper.FormatError(cliErrorMsg, err), 1)
	}

	out := newProfileOutput(cfg, p)
	return helper.Render(cmd.Root().Writer, jsonMode, out, out.table)
}
