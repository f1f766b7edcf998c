package logger

import (
	"testing"

	"github.com/hashicorp/nomad/helper/pointer"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfig_Merge(t *testing.T) {

	base := DefaultCLIConfig()

	merged := base.Merge(&Config{Level: "debug", JSON: pointer.Of(true)})
	require.Equal(t, &Config{
		Level:            "debug",
		JSON:             pointer.Of(true),
		IncludeLine:      pointer.Of(false),
		EnableStacktrace: pointer.Of(false),
	}, merged)

	// The receiver is not modified.
	require.Equal(t, "warn", base.Level)
	require.False(t, *base.JSON)

	require.Equal(t, base, base.Merge(nil))

	var nilCfg *Config
	require.Equal(t, merged, nilCfg.Merge(merged))
}

func TestNewZap(t *testing.T) {

	l, err := NewZap(&Config{Level: "debug"})
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = NewZap(nil)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zap.InfoLevel))
	require.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = NewZap(&Config{Level: "loud"})
	require.Error(t, err)
}
