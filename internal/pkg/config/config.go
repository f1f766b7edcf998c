// Package config reads and writes the towerctl configuration file, which
// holds named connection profiles and logging defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/google/renameio/v2"
	hclv2 "github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/nf-forge/towerctl/internal/pkg/hcl"
	"github.com/nf-forge/towerctl/internal/pkg/logger"
)

const (
	// EnvConfigPath overrides the location of the configuration file.
	EnvConfigPath = "TOWERCTL_CONFIG"

	defaultDir  = ".towerctl"
	defaultFile = "config.hcl"
)

var ErrProfileNotFound = errors.New("profile not found")

type Config struct {
	CurrentProfile string         `hcl:"current_profile,optional"`
	Profiles       []*Profile     `hcl:"profile,block"`
	Log            *logger.Config `hcl:"log,block"`

	// src is the file content the configuration was decoded from and saved
	// holds the decoded values. Save edits src in place so attributes that
	// did not change keep their original expressions, such as env.NAME.
	src   []byte
	saved *snapshot
}

type snapshot struct {
	currentProfile string
	profiles       map[string]Profile
	log            *logger.Config
}

func (c *Config) snapshot() *snapshot {
	s := &snapshot{
		currentProfile: c.CurrentProfile,
		profiles:       make(map[string]Profile, len(c.Profiles)),
	}
	for _, p := range c.Profiles {
		s.profiles[p.Name] = *p
	}
	if c.Log != nil {
		l := *c.Log
		s.log = &l
	}
	return s
}

// Profile is a named set of connection settings. Empty fields fall back to
// flags, environment variables or built-in defaults.
type Profile struct {
	Name      string `hcl:"name,label" json:"name"`
	URL       string `hcl:"url,optional" json:"url,omitempty"`
	Token     string `hcl:"token,optional" json:"-"`
	Workspace string `hcl:"workspace,optional" json:"workspace,omitempty"`
}

// Merge returns a copy of p with every non-empty field of other applied on
// top. The name of p is kept.
func (p *Profile) Merge(other *Profile) *Profile {

	if p == nil {
		p = &Profile{}
	}
	result := *p

	if other == nil {
		return &result
	}

	if other.URL != "" {
		result.URL = other.URL
	}
	if other.Token != "" {
		result.Token = other.Token
	}
	if other.Workspace != "" {
		result.Workspace = other.Workspace
	}

	return &result
}

// DefaultPath returns the configuration file location, honouring
// TOWERCTL_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, defaultDir, defaultFile), nil
}

// Load decodes the file at path. A missing file is not an error and yields
// an empty configuration.
func Load(path string) (*Config, error) {

	var cfg Config

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := hcl.ParseConfigBytes(src, path, &cfg); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		if _, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("duplicate profile %q in %s", p.Name, path)
		}
		seen[p.Name] = struct{}{}
	}

	cfg.src = src
	cfg.saved = cfg.snapshot()

	return &cfg, nil
}

// Profile returns the named profile, or the current profile when name is
// empty. With no name and no current profile, a nil profile and nil error
// are returned.
func (c *Config) Profile(name string) (*Profile, error) {

	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		return nil, nil
	}

	idx := slices.IndexFunc(c.Profiles, func(p *Profile) bool { return p.Name == name })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return c.Profiles[idx], nil
}

// SetProfile merges p into the profile of the same name, creating it when
// it does not exist yet.
func (c *Config) SetProfile(p *Profile) error {

	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name must not be empty")
	}

	if idx := slices.IndexFunc(c.Profiles, func(e *Profile) bool { return e.Name == p.Name }); idx >= 0 {
		c.Profiles[idx] = c.Profiles[idx].Merge(p)
		return nil
	}

	cp := *p
	c.Profiles = append(c.Profiles, &cp)
	return nil
}

// DeleteProfile removes the named profile and clears it as the current
// profile.
func (c *Config) DeleteProfile(name string) error {

	idx := slices.IndexFunc(c.Profiles, func(p *Profile) bool { return p.Name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	c.Profiles = slices.Delete(c.Profiles, idx, idx+1)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return nil
}

// UseProfile marks the named profile as current.
func (c *Config) UseProfile(name string) error {
	if name == "" {
		return errors.New("profile name must not be empty")
	}
	if _, err := c.Profile(name); err != nil {
		return err
	}
	c.CurrentProfile = name
	return nil
}

// Save atomically replaces the file at path with the configuration. The
// file holds access tokens so it is only readable by the owner.
func (c *Config) Save(path string) error {

	data, err := c.encode(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithStaticPermissions(0o600))
	if err != nil {
		return fmt.Errorf("failed to create pending config file: %w", err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	c.src = data
	c.saved = c.snapshot()

	return nil
}

// encode renders the configuration on top of the file it was loaded from.
// Only values that differ from what was decoded are written, so comments
// and expressions of untouched attributes survive.
func (c *Config) encode(filename string) ([]byte, error) {

	f := hclwrite.NewEmptyFile()
	saved := c.saved

	if c.src != nil {
		var diags hclv2.Diagnostics
		f, diags = hclwrite.ParseConfig(c.src, filename, hclv2.InitialPos)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %q: %s", filename, diags.Error())
		}
	}
	if saved == nil {
		saved = &snapshot{profiles: map[string]Profile{}}
	}

	body := f.Body()

	updateString(body, "current_profile", saved.currentProfile, c.CurrentProfile)

	current := make(map[string]*Profile, len(c.Profiles))
	for _, p := range c.Profiles {
		current[p.Name] = p
	}

	written := make(map[string]struct{}, len(c.Profiles))
	for _, block := range body.Blocks() {
		if block.Type() != "profile" || len(block.Labels()) != 1 {
			continue
		}
		name := block.Labels()[0]
		p, ok := current[name]
		if !ok {
			body.RemoveBlock(block)
			continue
		}
		old := saved.profiles[name]
		b := block.Body()
		updateString(b, "url", old.URL, p.URL)
		updateString(b, "token", old.Token, p.Token)
		updateString(b, "workspace", old.Workspace, p.Workspace)
		written[name] = struct{}{}
	}

	for _, p := range c.Profiles {
		if _, ok := written[p.Name]; ok {
			continue
		}
		body.AppendNewline()
		block := body.AppendNewBlock("profile", []string{p.Name}).Body()
		setOptionalString(block, "url", p.URL)
		setOptionalString(block, "token", p.Token)
		setOptionalString(block, "workspace", p.Workspace)
	}

	if !reflect.DeepEqual(c.Log, saved.log) {
		if block := body.FirstMatchingBlock("log", nil); block != nil {
			body.RemoveBlock(block)
		}
		if c.Log != nil {
			body.AppendNewline()
			appendLog(body.AppendNewBlock("log", nil).Body(), c.Log)
		}
	}

	return hclwrite.Format(f.Bytes()), nil
}

func appendLog(block *hclwrite.Body, l *logger.Config) {
	setOptionalString(block, "level", l.Level)
	if l.JSON != nil {
		block.SetAttributeValue("json", cty.BoolVal(*l.JSON))
	}
	if l.IncludeLine != nil {
		block.SetAttributeValue("include_line", cty.BoolVal(*l.IncludeLine))
	}
	if l.EnableStacktrace != nil {
		block.SetAttributeValue("enable_stacktrace", cty.BoolVal(*l.EnableStacktrace))
	}
}

// updateString rewrites the attribute only when its value changed, removing
// it when the new value is empty.
func updateString(body *hclwrite.Body, name, old, value string) {
	if old == value && (value == "" || body.GetAttribute(name) != nil) {
		return
	}
	if value == "" {
		body.RemoveAttribute(name)
		return
	}
	body.SetAttributeValue(name, cty.StringVal(value))
}

func setOptionalString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}
