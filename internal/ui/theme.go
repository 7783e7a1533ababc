package ui

import (
	"fmt"
	"sort"
	"strings"
)

// Theme bundles palette, symbols and box borders. Colorless themes
// suppress every ANSI code, including the ones OK, Fail and Dim emit.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string
	Colorless                                     bool
}

var (
	roundBox = Theme{CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯", H: "─", V: "│"}
	sharpBox = Theme{CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘", H: "─", V: "│"}
	asciiBox = Theme{CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+", H: "-", V: "|"}
)

func framed(frame, t Theme) Theme {
	t.CornerTL, t.CornerTR, t.CornerBL, t.CornerBR = frame.CornerTL, frame.CornerTR, frame.CornerBL, frame.CornerBR
	t.H, t.V = frame.H, frame.V
	return t
}

var themes = map[string]Theme{
	"classic": framed(sharpBox, Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymUnchecked: "•",
	}),
	"neon": framed(roundBox, Theme{
		Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: "\033[93m",
		BoxUnchecked: "◻", BoxChecked: "◼",
		SymDone: "✔", SymUnchecked: "•",
	}),
	"mono": framed(asciiBox, Theme{
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymUnchecked: "-",
		Colorless: true,
	}),
}

var current = themes["classic"]

// ThemeNames lists the known themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetTheme switches the current theme. Unknown names leave it unchanged.
func SetTheme(name string) error {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(ThemeNames(), ", "))
	}
	current = t
	return nil
}

// Current is the theme renderers draw with.
func Current() Theme { return current }
