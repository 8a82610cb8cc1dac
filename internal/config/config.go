package config

import (
	"github.com/spf13/viper"
)

// Config holds one generation run's settings.
type Config struct {
	// GirPath is the introspection document to read.
	GirPath string `mapstructure:"gir_path"`
	// Profile optionally overlays a library profile file.
	Profile  string `mapstructure:"profile"`
	LogLevel string `mapstructure:"log_level"`
	// Report optionally writes a JSON run report.
	Report string       `mapstructure:"report"`
	Output OutputConfig `mapstructure:"output"`
}

// OutputConfig holds the artifact destinations.
type OutputConfig struct {
	// Native is the C++ N-API wrapper source.
	Native string `mapstructure:"native"`
	// JS is the JavaScript wrapper module.
	JS string `mapstructure:"js"`
	// DTS is the TypeScript declaration file.
	DTS string `mapstructure:"dts"`
	// AddonPath is the require path the JS layer loads the compiled
	// native module from.
	AddonPath string `mapstructure:"addon_path"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("gir_path", "/usr/share/gir-1.0/Flatpak-1.0.gir")
	v.SetDefault("profile", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("report", "")

	// Output defaults
	v.SetDefault("output.native", "src/flatpak.cc")
	v.SetDefault("output.js", "index.js")
	v.SetDefault("output.dts", "index.d.ts")
	v.SetDefault("output.addon_path", "./build/Release/flatpak.node")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
