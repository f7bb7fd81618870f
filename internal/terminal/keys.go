// Package terminal turns raw terminal input into action keys and holds the
// ANSI sequences used to draw screens.
package terminal

// ActionKey is a decoded user key press.
type ActionKey int

const (
	KeyNone ActionKey = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBack
	KeyQuit
)

func (k ActionKey) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyBack:
		return "back"
	case KeyQuit:
		return "quit"
	}
	return "none"
}

type keyState int

const (
	keyGround keyState = iota
	keyEsc
	keyCSI
	keyCR
)

// KeyDecoder recognizes action keys in application input. It is stateful so
// an escape sequence split across reads is still decoded.
type KeyDecoder struct {
	state keyState
}

// Feed consumes one byte and reports the key it completes, if any.
func (d *KeyDecoder) Feed(b byte) (ActionKey, bool) {
	switch d.state {
	case keyEsc:
		if b == '[' || b == 'O' {
			d.state = keyCSI
			return KeyNone, false
		}
		d.state = keyGround
		return d.ground(b)

	case keyCSI:
		// Parameter bytes (e.g. the "5" in ESC [ 5 ~) are skipped.
		if b >= 0x30 && b <= 0x3F {
			return KeyNone, false
		}
		d.state = keyGround
		switch b {
		case 'A':
			return KeyUp, true
		case 'B':
			return KeyDown, true
		case 'C':
			return KeyRight, true
		case 'D':
			return KeyLeft, true
		}
		return KeyNone, false

	case keyCR:
		d.state = keyGround
		if b == '\n' || b == 0 {
			return KeyNone, false
		}
		return d.ground(b)
	}
	return d.ground(b)
}

func (d *KeyDecoder) ground(b byte) (ActionKey, bool) {
	switch b {
	case 0x1B:
		d.state = keyEsc
		return KeyNone, false
	case '\r':
		d.state = keyCR
		return KeyEnter, true
	case '\n':
		return KeyEnter, true
	case 0x08, 0x7F:
		return KeyBack, true
	case 'q', 'Q':
		return KeyQuit, true
	case 'k', 'K':
		return KeyUp, true
	case 'j', 'J':
		return KeyDown, true
	}
	return KeyNone, false
}

// Decode feeds every byte of p and appends the completed keys to keys.
func (d *KeyDecoder) Decode(p []byte, keys []ActionKey) []ActionKey {
	for _, b := range p {
		if k, ok := d.Feed(b); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
