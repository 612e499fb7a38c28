package config

import (
	"fmt"
	"time"
)

// Theme names accepted by ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds terminal interface configuration.
type UIConfig struct {
	// Theme is auto, light or dark. Auto inspects the terminal.
	Theme string `yaml:"theme" json:"theme"`

	// RefreshInterval is how often the bar view repaints while a sort runs.
	RefreshInterval string `yaml:"refresh_interval" json:"refresh_interval"`

	// ShowMetadata toggles the algorithm metadata panel.
	ShowMetadata bool `yaml:"show_metadata" json:"show_metadata"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:           ThemeAuto,
		RefreshInterval: "33ms", // ~30 fps
		ShowMetadata:    true,
	}
}

// GetRefreshInterval returns the repaint interval as a duration.
func (u *UIConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(u.RefreshInterval)
	if err != nil || d <= 0 {
		return 33 * time.Millisecond
	}
	return d
}

// Validate checks the theme name.
func (u *UIConfig) Validate() error {
	switch u.Theme {
	case "", ThemeAuto, ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("invalid ui.theme %q (valid: %s, %s, %s)", u.Theme, ThemeAuto, ThemeLight, ThemeDark)
	}
}
