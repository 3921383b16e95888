package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type durations struct {
	Timeout  time.Duration
	Interval time.Duration
	Probe    time.Duration
	Names    []string
}

func TestSecondsDurationHook(t *testing.T) {
	tests := map[string]struct {
		in   interface{}
		want time.Duration
	}{
		"digits string":   {"300", 300 * time.Second},
		"duration string": {"2m30s", 150 * time.Second},
		"int":             {45, 45 * time.Second},
		"float":           {1.5, 1500 * time.Millisecond},
		"empty":           {"", 0},
		"duration value":  {3 * time.Millisecond, 3 * time.Millisecond},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			v.Set("timeout", tc.in)
			out := &durations{}
			require.NoError(t, v.Unmarshal(out, CustomHooks...))
			assert.Equal(t, tc.want, out.Timeout)
		})
	}
}

func TestSecondsDurationHook_InvalidString(t *testing.T) {
	v := viper.New()
	v.Set("timeout", "soon")
	assert.Error(t, v.Unmarshal(&durations{}, CustomHooks...))
}

func TestCustomHooks_CommaSeparatedSlice(t *testing.T) {
	v := viper.New()
	v.Set("names", "configs,compose")
	out := &durations{}
	require.NoError(t, v.Unmarshal(out, CustomHooks...))
	assert.Equal(t, []string{"configs", "compose"}, out.Names)
}
