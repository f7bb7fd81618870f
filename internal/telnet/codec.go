package telnet

type decodeState int

const (
	stateData decodeState = iota
	stateIAC
	stateVerb
	stateSB
	stateSBIAC
)

// TokenKind tells which field of a Token is meaningful.
type TokenKind int

const (
	TokenData TokenKind = iota
	TokenCommand
)

// Token is one decoded unit of the inbound stream: an application byte or a
// negotiation command.
type Token struct {
	Kind    TokenKind
	Data    byte
	Command Command
}

// Decoder splits an inbound telnet byte stream into application data and
// negotiation commands. It keeps its state between calls, so a sequence split
// across reads is still recognized.
type Decoder struct {
	state decodeState
	verb  byte
}

// Feed advances the decoder by one byte. ok is false when the byte was
// consumed as part of a control sequence that yields nothing.
func (d *Decoder) Feed(b byte) (tok Token, ok bool) {
	switch d.state {
	case stateData:
		if b == IAC {
			d.state = stateIAC
			return Token{}, false
		}
		return Token{Kind: TokenData, Data: b}, true

	case stateIAC:
		switch {
		case b == IAC:
			d.state = stateData
			return Token{Kind: TokenData, Data: IAC}, true
		case isVerb(b):
			d.verb = b
			d.state = stateVerb
		case b == SB:
			d.state = stateSB
		default:
			// NOP, GA, AYT and friends carry no option; drop them.
			d.state = stateData
		}
		return Token{}, false

	case stateVerb:
		d.state = stateData
		return Token{Kind: TokenCommand, Command: Command{Verb: Verb(d.verb), Option: b}}, true

	case stateSB:
		if b == IAC {
			d.state = stateSBIAC
		}
		return Token{}, false

	case stateSBIAC:
		if b == SE {
			d.state = stateData
		} else {
			d.state = stateSB
		}
		return Token{}, false
	}
	return Token{}, false
}

// Decode runs Feed over in, appending data bytes to data and passing every
// command to onCommand in stream order.
func (d *Decoder) Decode(in []byte, data []byte, onCommand func(Command)) []byte {
	for _, b := range in {
		tok, ok := d.Feed(b)
		if !ok {
			continue
		}
		switch tok.Kind {
		case TokenData:
			data = append(data, tok.Data)
		case TokenCommand:
			if onCommand != nil {
				onCommand(tok.Command)
			}
		}
	}
	return data
}

// Escape appends p to dst with every IAC byte doubled.
func Escape(dst, p []byte) []byte {
	for _, b := range p {
		if b == IAC {
			dst = append(dst, IAC, IAC)
			continue
		}
		dst = append(dst, b)
	}
	return dst
}

// EncodeCommands appends the wire form of cmds to dst.
func EncodeCommands(dst []byte, cmds []Command) []byte {
	for _, c := range cmds {
		dst = append(dst, IAC, byte(c.Verb), c.Option)
	}
	return dst
}
