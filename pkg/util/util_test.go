package util

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDouble(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{51.0, "51.0"},
		{50.8503396, "50.8503396"},
		{-0.1275, "-0.1275"},
		{4.3517103, "4.3517103"},
		{0, "0.0"},
		{-0.0005, "-5.0E-4"},
		{0.00012345, "1.2345E-4"},
		{12345678.5, "1.23456785E7"},
		{1000, "1000.0"},
	}

	for _, tt := range testCases {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDouble(tt.in))
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("boom")
	err := WrapErrorf(orig, ErrBadParamInput, "bad coordinate %d", 3)

	assert.Equal(t, "bad coordinate 3", err.Error())
	assert.ErrorIs(t, err, orig)

	var utilErr *Error
	assert.True(t, errors.As(err, &utilErr))
	assert.Equal(t, ErrBadParamInput, utilErr.Code())
}

func TestSpacesToUnderscores(t *testing.T) {
	assert.Equal(t, "Sint-Niklaas_Centrum", SpacesToUnderscores("Sint-Niklaas Centrum"))
}

func TestReadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("VRPGEN_ROUTE_CACHE_SIZE", "10")
	t.Setenv("VRPGEN_CREATE_DIRS", "true")
	require.NoError(t, ReadConfig())

	assert.Equal(t, 10, viper.GetInt("route_cache.size"))
	assert.True(t, viper.GetBool("create_dirs"))
	assert.Equal(t, "data/vehiclerouting", viper.GetString("data_dir"))
	assert.Equal(t, "local/osm/great-britain-latest.osm.pbf", viper.GetString("osm.uk-teams"))
	assert.Equal(t, 1500*time.Millisecond, viper.GetDuration("google.interval"))
}
