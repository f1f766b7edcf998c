package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/nomad/helper/pointer"
	"github.com/stretchr/testify/require"

	"github.com/nf-forge/towerctl/internal/pkg/logger"
)

func TestLoad(t *testing.T) {

	t.Setenv("TOWERCTL_TEST_TOKEN", "from-env")

	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
current_profile = "prod"

profile "prod" {
  url       = "https://tower.example.com/api"
  token     = env.TOWERCTL_TEST_TOKEN
  workspace = "acme/prod"
}

profile "personal" {
  token = "abc"
}

log {
  level = "debug"
}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.CurrentProfile)
	require.Len(t, cfg.Profiles, 2)
	require.Equal(t, &logger.Config{Level: "debug"}, cfg.Log)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	require.Equal(t, &Profile{
		Name:      "prod",
		URL:       "https://tower.example.com/api",
		Token:     "from-env",
		Workspace: "acme/prod",
	}, p)

	p, err = cfg.Profile("personal")
	require.NoError(t, err)
	require.Equal(t, "abc", p.Token)

	_, err = cfg.Profile("staging")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.Empty(t, cfg.Profiles)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestLoad_DuplicateProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte("profile \"a\" {}\nprofile \"a\" {}\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, `duplicate profile "a"`)
}

func TestConfig_SaveRoundTrip(t *testing.T) {

	path := filepath.Join(t.TempDir(), "nested", "config.hcl")

	cfg := &Config{}
	require.NoError(t, cfg.SetProfile(&Profile{Name: "prod", URL: "https://tower.example.com/api", Token: "t1"}))
	require.NoError(t, cfg.SetProfile(&Profile{Name: "dev", Token: "t2"}))
	require.NoError(t, cfg.SetProfile(&Profile{Name: "prod", Workspace: "acme/prod"}))
	require.NoError(t, cfg.UseProfile("prod"))
	cfg.Log = &logger.Config{Level: "info", JSON: pointer.Of(true)}

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.CurrentProfile, loaded.CurrentProfile)
	require.Equal(t, cfg.Profiles, loaded.Profiles)
	require.Equal(t, cfg.Log, loaded.Log)

	require.NoError(t, loaded.DeleteProfile("prod"))
	require.Empty(t, loaded.CurrentProfile)
	require.Len(t, loaded.Profiles, 1)
	require.ErrorIs(t, loaded.DeleteProfile("prod"), ErrProfileNotFound)
	require.ErrorIs(t, loaded.UseProfile("prod"), ErrProfileNotFound)
	require.Error(t, loaded.SetProfile(&Profile{Name: " "}))
}

func TestConfig_SaveKeepsExpressions(t *testing.T) {

	t.Setenv("TOWERCTL_TEST_SECRET", "s3cr3t-token")

	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`# shared settings
current_profile = "ci"

profile "ci" {
  url   = "https://tower.example.com/api"
  token = env.TOWERCTL_TEST_SECRET
}

profile "old" {
  token = "stale"
}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "s3cr3t-token", cfg.Profiles[0].Token)

	require.NoError(t, cfg.SetProfile(&Profile{Name: "other", URL: "https://other.example.com/api", Token: "t2"}))
	require.NoError(t, cfg.SetProfile(&Profile{Name: "ci", Workspace: "acme/ci"}))
	require.NoError(t, cfg.DeleteProfile("old"))
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, "env.TOWERCTL_TEST_SECRET")
	require.NotContains(t, text, "s3cr3t-token")
	require.NotContains(t, text, "stale")
	require.Contains(t, text, "# shared settings")
	require.Contains(t, text, `workspace = "acme/ci"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []*Profile{
		{Name: "ci", URL: "https://tower.example.com/api", Token: "s3cr3t-token", Workspace: "acme/ci"},
		{Name: "other", URL: "https://other.example.com/api", Token: "t2"},
	}, loaded.Profiles)

	// Changing the token itself replaces the expression.
	require.NoError(t, loaded.SetProfile(&Profile{Name: "ci", Token: "rotated"}))
	require.NoError(t, loaded.UseProfile("other"))
	require.NoError(t, loaded.Save(path))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "env.TOWERCTL_TEST_SECRET")
	require.Contains(t, string(data), `current_profile = "other"`)

	loaded, err = Load(path)
	require.NoError(t, err)
	p, err := loaded.Profile("ci")
	require.NoError(t, err)
	require.Equal(t, "rotated", p.Token)
}

func TestProfile_Merge(t *testing.T) {

	base := &Profile{Name: "prod", URL: "https://a", Token: "t"}

	require.Equal(t, &Profile{Name: "prod", URL: "https://b", Token: "t", Workspace: "1"},
		base.Merge(&Profile{Name: "ignored", URL: "https://b", Workspace: "1"}))
	require.Equal(t, base, base.Merge(nil))

	var nilProfile *Profile
	require.Equal(t, &Profile{Token: "x"}, nilProfile.Merge(&Profile{Token: "x"}))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/towerctl.hcl")
	p, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, "/tmp/towerctl.hcl", p)

	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", "/home/tester")
	p, err = DefaultPath()
	require.NoError(t, err)
	require.Equal(t, "/home/tester/.towerctl/config.hcl", p)
}
