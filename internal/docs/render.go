package docs

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	rendererMu sync.Mutex
	// Keyed by style + wrap width. A fixed style avoids WithAutoStyle, which can
	// block on terminal background queries.
	renderers = map[string]*glamour.TermRenderer{}
)

// Style picks the glamour style: FIELDBUILDER_MD_STYLE wins, then "notty"
// when NO_COLOR is set, then "dark".
func Style() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("FIELDBUILDER_MD_STYLE"))); v {
	case "light", "dark", "notty", "ascii":
		return v
	}
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	return "dark"
}

// Render renders markdown for a terminal of the given width. On any renderer
// error the markdown is returned unchanged.
func Render(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	style := Style()
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	defer rendererMu.Unlock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		renderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
