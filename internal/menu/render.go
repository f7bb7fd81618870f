package menu

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/banasraf/telnet-server/internal/terminal"
)

// Width is the number of columns a rendered screen occupies.
const Width = 60

// View is everything a full-screen render needs besides the menu itself.
type View struct {
	Listeners int
}

// Render draws the whole screen. Every terminal receives the same bytes.
func Render(m *Menu, l *OptionsListing, v View) []byte {
	var b strings.Builder

	b.WriteString(terminal.HideCursor)
	b.WriteString(terminal.ClearScreen)
	b.WriteString(terminal.Bold)
	b.WriteString(fit(" "+m.Screen().Title(), Width))
	b.WriteString(terminal.Reset)
	b.WriteString(terminal.NewLine)
	b.WriteString(strings.Repeat("-", Width))
	b.WriteString(terminal.NewLine)

	for i, it := range m.Items(l) {
		label := it.Label
		if it.Kind == ItemStation && l.playing == it.Station {
			label += " *"
		}
		if i == m.Cursor() {
			b.WriteString(terminal.Reverse)
			b.WriteString(fit(" > "+label, Width))
			b.WriteString(terminal.Reset)
		} else {
			b.WriteString(fit("   "+label, Width))
		}
		b.WriteString(terminal.NewLine)
	}

	b.WriteString(strings.Repeat("-", Width))
	b.WriteString(terminal.NewLine)
	if s, ok := l.Playing(); ok {
		b.WriteString(fit(" Now playing: "+s.Name, Width))
	} else {
		b.WriteString(fit(" Now playing: -", Width))
	}
	b.WriteString(terminal.NewLine)
	b.WriteString(fit(fmt.Sprintf(" Listeners: %d", v.Listeners), Width))
	b.WriteString(terminal.NewLine)
	b.WriteString(fit(" up/down: move  enter: select  backspace: back  q: quit", Width))
	b.WriteString(terminal.NewLine)

	return []byte(b.String())
}

// fit truncates or pads s to exactly w display columns.
func fit(s string, w int) string {
	s = runewidth.Truncate(s, w, "...")
	return runewidth.FillRight(s, w)
}
