package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminals/fonts render the Unicode markers poorly. FIELDBUILDER_TUI_GLYPHS=ascii
// switches every marker the editor draws to plain ASCII.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("FIELDBUILDER_TUI_GLYPHS")))
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

// glyphFocus marks the focused section title.
func glyphFocus() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

// glyphCursor marks the selected choice row.
func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphCheckbox(on bool) string {
	if glyphs() == glyphSetASCII {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	if on {
		return "☑"
	}
	return "☐"
}

// glyphCycle wraps a value that left/right cycles through.
func glyphCycle(s string) string {
	if glyphs() == glyphSetASCII {
		return "< " + s + " >"
	}
	return "‹ " + s + " ›"
}

func glyphArrows() string {
	if glyphs() == glyphSetASCII {
		return "up/down"
	}
	return "↑/↓"
}
