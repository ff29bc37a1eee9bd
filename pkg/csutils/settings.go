package csutils

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Settings controls library-wide behaviour that depends on the host install.
type Settings struct {
	// ServerRoot is the directory holding configs/plugins/...
	ServerRoot string `env:"GOSTRIKE_SERVER_ROOT" envDefault:"addons/gostrike"`
	// Debug enables debug log lines.
	Debug bool `env:"GOSTRIKE_DEBUG"`
	// Platform selects the engine vtable layout; defaults to GOOS.
	Platform string `env:"GOSTRIKE_PLATFORM"`
}

// DefaultSettings returns the settings used when the environment is empty.
func DefaultSettings() Settings {
	return Settings{
		ServerRoot: "addons/gostrike",
		Platform:   runtime.GOOS,
	}
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse env: %w", err)
	}
	if s.Platform == "" {
		s.Platform = runtime.GOOS
	}
	return s, nil
}
