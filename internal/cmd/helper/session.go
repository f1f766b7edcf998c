package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nf-forge/towerctl/internal/pkg/config"
	"github.com/nf-forge/towerctl/internal/pkg/logger"
	"github.com/nf-forge/towerctl/internal/pkg/resolve"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

var errMissingToken = errors.New("no access token, use --token, TOWER_ACCESS_TOKEN or a profile with a token")

// Session carries everything a command needs to talk to the API: the
// client, the effective connection settings and the output mode.
type Session struct {
	Client   *api.Client
	Resolver *resolve.Resolver
	Logger   *zap.Logger

	// Profile is the effective connection settings after applying the
	// selected profile, flags and environment variables.
	Profile *config.Profile

	out  io.Writer
	json bool

	workspace *resolve.Workspace
}

// LoadConfig reads the configuration file selected by --config, or the
// default location.
func LoadConfig(cmd *cli.Command) (*config.Config, string, error) {

	path := cmd.String(configCLIFlag)
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

func NewSession(_ context.Context, cmd *cli.Command) (*Session, error) {

	jsonMode, err := JSONOutput(cmd)
	if err != nil {
		return nil, err
	}

	cfg, _, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	selected, err := cfg.Profile(cmd.String(profileCLIFlag))
	if err != nil {
		return nil, err
	}

	effective := (&config.Profile{URL: api.DefaultAddress}).
		Merge(selected).
		Merge(&config.Profile{
			URL:       cmd.String(urlCLIFlag),
			Token:     cmd.String(tokenCLIFlag),
			Workspace: cmd.String(workspaceCLIFlag),
		})
	if selected != nil {
		effective.Name = selected.Name
	}

	if effective.Token == "" {
		return nil, errMissingToken
	}

	log, err := logger.NewZap(logger.DefaultCLIConfig().Merge(cfg.Log).Merge(logger.ConfigFromCLI(cmd)))
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	clientCfg := api.DefaultConfig()
	clientCfg.Address = effective.URL
	clientCfg.Token = effective.Token
	clientCfg.Logger = log.Named(logger.ComponentNameAPI)

	client := api.NewClient(clientCfg)

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	configureColour(out, jsonMode)

	return &Session{
		Client:   client,
		Resolver: resolve.New(client, log.Named(logger.ComponentNameResolve)),
		Logger:   log,
		Profile:  effective,
		out:      out,
		json:     jsonMode,
	}, nil
}

// Workspace resolves the workspace reference of the session once and
// caches the result.
func (s *Session) Workspace(ctx context.Context) (*resolve.Workspace, error) {
	if s.workspace != nil {
		return s.workspace, nil
	}
	ws, err := s.Resolver.Workspace(ctx, s.Profile.Workspace)
	if err != nil {
		return nil, err
	}
	s.workspace = ws
	return ws, nil
}

func (s *Session) Out() io.Writer { return s.out }

func (s *Session) JSON() bool { return s.json }

// Progress returns the writer for human-readable progress text, or nil in
// JSON mode.
func (s *Session) Progress() io.Writer {
	if s.json {
		return nil
	}
	return s.out
}

func configureColour(out io.Writer, jsonMode bool) {
	if f, ok := out.(*os.File); ok && !jsonMode && term.IsTerminal(int(f.Fd())) {
		pterm.EnableColor()
		return
	}
	pterm.DisableColor()
}
