// Package menu holds the shared radio menu state and draws it.
package menu

import "github.com/banasraf/telnet-server/internal/terminal"

// Station is one selectable entry of the options listing.
type Station struct {
	Name string
	URL  string
}

// OptionsListing is the station catalog and the channel currently playing.
type OptionsListing struct {
	Stations []Station
	playing  int
	pending  int
	hasNext  bool
}

func NewOptionsListing(stations []Station) *OptionsListing {
	return &OptionsListing{Stations: stations, playing: -1}
}

// Playing returns the station on air, if any.
func (l *OptionsListing) Playing() (Station, bool) {
	if l.playing < 0 || l.playing >= len(l.Stations) {
		return Station{}, false
	}
	return l.Stations[l.playing], true
}

// Request records the channel to switch to on the next ApplyChange. A
// negative index requests silence.
func (l *OptionsListing) Request(idx int) {
	if idx >= len(l.Stations) {
		idx = -1
	}
	l.pending = idx
	l.hasNext = true
}

// ApplyChange switches to the requested channel and reports whether the
// playing station changed.
func (l *OptionsListing) ApplyChange() bool {
	if !l.hasNext {
		return false
	}
	l.hasNext = false
	next := l.pending
	if next < 0 {
		next = -1
	}
	changed := next != l.playing
	l.playing = next
	return changed
}

// Screen identifies which list the menu shows.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenStations
)

func (s Screen) Title() string {
	if s == ScreenStations {
		return "Stations"
	}
	return "Radio"
}

type ItemKind int

const (
	ItemSubmenu ItemKind = iota
	ItemStation
	ItemStop
	ItemBack
)

type Item struct {
	Label   string
	Kind    ItemKind
	Target  Screen
	Station int
}

// Action tells the caller what a key press asks for.
type Action int

const (
	ActionNone          Action = iota
	ActionRedraw               // cursor moved
	ActionMenuChange           // a screen transition is pending
	ActionChangeChannel        // a channel change is pending
)

// Menu is the cursor and screen shared by every connected terminal.
type Menu struct {
	screen     Screen
	cursor     int
	pending    Screen
	hasPending bool
}

func New() *Menu {
	return &Menu{}
}

func (m *Menu) Screen() Screen { return m.screen }
func (m *Menu) Cursor() int    { return m.cursor }

// Items lists the entries of the current screen.
func (m *Menu) Items(l *OptionsListing) []Item {
	switch m.screen {
	case ScreenStations:
		items := make([]Item, 0, len(l.Stations)+1)
		for i, s := range l.Stations {
			items = append(items, Item{Label: s.Name, Kind: ItemStation, Station: i})
		}
		return append(items, Item{Label: "Back", Kind: ItemBack, Target: ScreenMain})
	default:
		return []Item{
			{Label: "Stations", Kind: ItemSubmenu, Target: ScreenStations},
			{Label: "Stop playback", Kind: ItemStop},
		}
	}
}

// HandleKey applies a key press. Cursor moves happen immediately; screen and
// channel changes are only recorded and take effect in ApplyMenuChange and
// OptionsListing.ApplyChange.
func (m *Menu) HandleKey(key terminal.ActionKey, l *OptionsListing) Action {
	items := m.Items(l)
	switch key {
	case terminal.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			return ActionRedraw
		}
	case terminal.KeyDown:
		if m.cursor < len(items)-1 {
			m.cursor++
			return ActionRedraw
		}
	case terminal.KeyBack, terminal.KeyLeft:
		if m.screen != ScreenMain {
			m.requestScreen(ScreenMain)
			return ActionMenuChange
		}
	case terminal.KeyEnter, terminal.KeyRight:
		if m.cursor >= len(items) {
			return ActionNone
		}
		it := items[m.cursor]
		switch it.Kind {
		case ItemSubmenu, ItemBack:
			m.requestScreen(it.Target)
			return ActionMenuChange
		case ItemStation:
			l.Request(it.Station)
			return ActionChangeChannel
		case ItemStop:
			l.Request(-1)
			return ActionChangeChannel
		}
	}
	return ActionNone
}

func (m *Menu) requestScreen(s Screen) {
	m.pending = s
	m.hasPending = true
}

// ApplyMenuChange performs a pending screen transition and reports whether
// the screen changed. The cursor is reset on every transition.
func (m *Menu) ApplyMenuChange() bool {
	if !m.hasPending {
		return false
	}
	m.hasPending = false
	if m.pending == m.screen {
		return false
	}
	m.screen = m.pending
	m.cursor = 0
	return true
}
