package hcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type testConfig struct {
	Name    string   `hcl:"name"`
	Region  string   `hcl:"region,optional"`
	Targets []string `hcl:"targets,optional"`
}

func TestParseConfig(t *testing.T) {

	t.Setenv("HCL_TEST_REGION", "eu-west-1")

	path := filepath.Join(t.TempDir(), "c.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
name    = upper("prod")
region  = env.HCL_TEST_REGION
targets = split(",", "a,b")
`), 0o600))

	var cfg testConfig
	require.NoError(t, ParseConfig(path, &cfg))
	require.Equal(t, testConfig{Name: "PROD", Region: "eu-west-1", Targets: []string{"a", "b"}}, cfg)

	require.ErrorContains(t, ParseConfig(filepath.Join(t.TempDir(), "missing.hcl"), &cfg), "failed to parse")
	require.ErrorContains(t, ParseConfigBytes([]byte(`region = "x"`), "bad.hcl", &cfg), "failed to decode config")
}

func TestGoToCty(t *testing.T) {

	val, err := GoToCty(map[string]any{
		"s": "x",
		"n": 3,
		"l": []any{"a", true},
		"e": []string{},
	})
	require.NoError(t, err)
	require.True(t, val.Type().IsObjectType())
	require.Equal(t, cty.StringVal("x"), val.GetAttr("s"))
	require.True(t, val.GetAttr("n").RawEquals(cty.NumberIntVal(3)))
	require.Equal(t, 2, val.GetAttr("l").LengthInt())

	_, err = GoToCty(struct{}{})
	require.ErrorContains(t, err, "unsupported type")

	null, err := GoToCty(nil)
	require.NoError(t, err)
	require.True(t, null.IsNull())
}
