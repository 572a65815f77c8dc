package styles_test

import (
	"testing"

	"github.com/arthur-debert/gitboot/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyleRegistry(t *testing.T) {
	expected := []string{
		"Header", "Step", "Detail", "Success", "Warning", "Error", "Remediation",
		"SuccessBadge", "SkippedBadge", "WarningBadge", "ErrorBadge",
		"KeyBox", "Bold", "Muted",
	}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			_, exists := styles.StyleRegistry[name]
			assert.True(t, exists, "style %s should exist in registry", name)
		})
	}
}

func TestStyleAttributes(t *testing.T) {
	assert.True(t, styles.GetStyle("Error").GetBold())
	assert.True(t, styles.GetStyle("Remediation").GetItalic())
	assert.Equal(t, lipgloss.RoundedBorder(), styles.GetStyle("KeyBox").GetBorderStyle())
	assert.Equal(t, 1, styles.GetStyle("SuccessBadge").GetPaddingLeft())
}

func TestGetStyleUnknown(t *testing.T) {
	assert.Equal(t, "plain", styles.GetStyle("DoesNotExist").Render("plain"))
}

func TestLoadStylesFromDataRejectsInvalid(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, styles.LoadDefaults())
	})

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
	assert.Error(t, styles.LoadStylesFromData([]byte("colors: {}\n")))
}

func TestLoadStylesFromDataReplacesRegistry(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, styles.LoadDefaults())
	})

	require.NoError(t, styles.LoadStylesFromData([]byte("styles:\n  Header:\n    bold: true\n")))
	assert.True(t, styles.GetStyle("Header").GetBold())

	require.NoError(t, styles.LoadDefaults())
	assert.Contains(t, styles.StyleRegistry, "KeyBox")
}
