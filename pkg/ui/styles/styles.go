// Package styles defines the visual styling for gitboot's terminal output.
//
// Styles have semantic names and adaptive colors that adjust to light and
// dark terminal themes. They are loaded from the embedded styles.yaml.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold             bool   `yaml:"bold,omitempty"`
	Italic           bool   `yaml:"italic,omitempty"`
	Underline        bool   `yaml:"underline,omitempty"`
	Foreground       string `yaml:"foreground,omitempty"`
	Background       string `yaml:"background,omitempty"`
	Border           string `yaml:"border,omitempty"`
	BorderForeground string `yaml:"borderForeground,omitempty"`
	MarginBottom     int    `yaml:"marginBottom,omitempty"`
	MarginTop        int    `yaml:"marginTop,omitempty"`
	PaddingLeft      int    `yaml:"paddingLeft,omitempty"`
	PaddingRight     int    `yaml:"paddingRight,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// StyleRegistry maps semantic names to lipgloss styles
var StyleRegistry map[string]lipgloss.Style

// Adaptive colors loaded from YAML
var colors map[string]lipgloss.AdaptiveColor

//go:embed styles.yaml
var embeddedStyles []byte

// Names every caller may rely on, even when loading fails.
var requiredStyles = []string{
	"Header", "Step", "Detail", "Success", "Warning", "Error", "Remediation",
	"SuccessBadge", "SkippedBadge", "WarningBadge", "ErrorBadge",
	"KeyBox", "Bold", "Muted",
}

func init() {
	if err := LoadDefaults(); err != nil {
		initDefaultStyles()
	}
}

// initDefaultStyles installs plain styles so output never depends on the
// style sheet parsing.
func initDefaultStyles() {
	colors = make(map[string]lipgloss.AdaptiveColor)
	StyleRegistry = make(map[string]lipgloss.Style)
	for _, name := range requiredStyles {
		StyleRegistry[name] = lipgloss.NewStyle()
	}
	StyleRegistry["KeyBox"] = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
}

// LoadDefaults loads the embedded style sheet
func LoadDefaults() error {
	return LoadStylesFromData(embeddedStyles)
}

// LoadStylesFromData loads style configuration from byte data
func LoadStylesFromData(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse styles data: %w", err)
	}
	if len(config.Styles) == 0 {
		return fmt.Errorf("styles data defines no styles")
	}

	colors = make(map[string]lipgloss.AdaptiveColor)
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{
			Light: def.Light,
			Dark:  def.Dark,
		}
	}

	StyleRegistry = make(map[string]lipgloss.Style)
	for name, def := range config.Styles {
		StyleRegistry[name] = buildStyle(def)
	}
	return nil
}

// buildStyle constructs a lipgloss style from a style definition
func buildStyle(def StyleDef) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}

	switch def.Border {
	case "rounded":
		style = style.Border(lipgloss.RoundedBorder())
	case "normal":
		style = style.Border(lipgloss.NormalBorder())
	case "thick":
		style = style.Border(lipgloss.ThickBorder())
	}
	if color, ok := colors[def.BorderForeground]; ok {
		style = style.BorderForeground(color)
	}

	if def.MarginBottom > 0 {
		style = style.MarginBottom(def.MarginBottom)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}
	if def.PaddingLeft > 0 || def.PaddingRight > 0 {
		style = style.Padding(0, def.PaddingRight, 0, def.PaddingLeft)
	}

	return style
}

// GetStyle safely retrieves a style from the registry
func GetStyle(name string) lipgloss.Style {
	if style, ok := StyleRegistry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
