// pkg/ui/styles/styles_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test loading of the style registry

package styles_test

import (
	"testing"

	"github.com/arthur-debert/dotmgr/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStylesLoaded(t *testing.T) {
	for _, name := range []string{"Header", "Success", "Warning", "Error", "FilePath", "Linked", "Staged", "Pending"} {
		_, ok := styles.StyleRegistry[name]
		assert.True(t, ok, name)
	}
	assert.True(t, styles.GetStyle("Error").GetBold())
}

func TestGetStyle_Unknown(t *testing.T) {
	style := styles.GetStyle("NoSuchStyle")
	assert.Equal(t, "x", style.Render("x"))
}

func TestLoadStylesFromData(t *testing.T) {
	saved := styles.StyleRegistry
	t.Cleanup(func() { styles.StyleRegistry = saved })

	data := []byte("colors:\n  red:\n    light: \"#ff0000\"\n    dark: \"#ff0000\"\nstyles:\n  Alert:\n    bold: true\n    foreground: red\n")
	require.NoError(t, styles.LoadStylesFromData(data))
	assert.True(t, styles.GetStyle("Alert").GetBold())

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
}
