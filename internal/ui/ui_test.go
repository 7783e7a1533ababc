package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestPanelAlignsWideRunes(t *testing.T) {
	SetColorForcing(false, true)
	require.NoError(t, SetTheme("mono"))
	t.Cleanup(func() { _ = SetTheme("classic"); SetColorForcing(false, false) })

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "日本"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"+------+",
		"| ab   |",
		"| 日本 |",
		"+------+",
	}, lines)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}

func TestSetTheme(t *testing.T) {
	SetColorForcing(true, false)
	t.Cleanup(func() { _ = SetTheme("classic"); SetColorForcing(false, false) })

	require.NoError(t, SetTheme("mono"))
	assert.Equal(t, "x", C(fgGreen, "x"))

	// leaving mono brings color back
	require.NoError(t, SetTheme("Neon"))
	assert.Equal(t, fgGreen+"x"+reset, C(fgGreen, "x"))

	assert.Error(t, SetTheme("solarized"))
	assert.Equal(t, "◼", Current().BoxChecked)
	assert.Equal(t, []string{"classic", "mono", "neon"}, ThemeNames())
}
