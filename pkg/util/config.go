package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ReadConfig loads config.yaml from ./data/ or the working dir. A missing file is fine: defaults and
// VRPGEN_* environment variables still apply.
func ReadConfig() error {
	SetConfigDefaults()

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("VRPGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetConfigDefaults() {
	viper.SetDefault("data_dir", "data/vehiclerouting")
	viper.SetDefault("raw_dir", "data/raw")
	viper.SetDefault("graph_dir", "local/graph")
	viper.SetDefault("osm.belgium", "local/osm/belgium-latest.osm.pbf")
	viper.SetDefault("osm.usa", "local/osm/north-america-latest.osm.pbf")
	viper.SetDefault("osm.uk-teams", "local/osm/great-britain-latest.osm.pbf")
	viper.SetDefault("workers", 8)
	viper.SetDefault("create_dirs", false)
	viper.SetDefault("legacy_numbering", false)
	viper.SetDefault("engine.name", "GraphHopper")
	viper.SetDefault("engine.url", "")
	viper.SetDefault("engine.search_radius", 0.05)
	viper.SetDefault("route_cache.size", 1<<16)
	viper.SetDefault("route_cache.dir", "")
	viper.SetDefault("google.api_key", "")
	viper.SetDefault("google.interval", "1500ms")
	viper.SetDefault("api_port", 6060)
	viper.SetDefault("api_timeout", "60s")
	viper.SetDefault("api_rate_limit", 100)
	viper.SetDefault("log.debug", false)
}
