package telnet

import "fmt"

// Telnet command bytes.
const (
	SE   = 0xF0 // Subnegotiation End
	NOP  = 0xF1
	GA   = 0xF9 // Go Ahead
	SB   = 0xFA // Subnegotiation Begin
	WILL = 0xFB
	WONT = 0xFC
	DO   = 0xFD
	DONT = 0xFE
	IAC  = 0xFF // Interpret As Command
)

// Telnet option codes.
const (
	OptBinary          = 0x00
	OptEcho            = 0x01
	OptSuppressGoAhead = 0x03
	OptTerminalType    = 0x18
	OptNAWS            = 0x1F
	OptLinemode        = 0x22
)

// Verb is one of the four negotiation verbs.
type Verb byte

const (
	VerbWill Verb = WILL
	VerbWont Verb = WONT
	VerbDo   Verb = DO
	VerbDont Verb = DONT
)

func (v Verb) String() string {
	switch v {
	case VerbWill:
		return "WILL"
	case VerbWont:
		return "WONT"
	case VerbDo:
		return "DO"
	case VerbDont:
		return "DONT"
	}
	return fmt.Sprintf("VERB(%#02x)", byte(v))
}

func isVerb(b byte) bool {
	return b >= WILL && b <= DONT
}

// Command is a single option negotiation directive. Commands are plain values
// and compare with ==.
type Command struct {
	Verb   Verb
	Option byte
}

func Will(option byte) Command { return Command{Verb: VerbWill, Option: option} }
func Wont(option byte) Command { return Command{Verb: VerbWont, Option: option} }
func Do(option byte) Command   { return Command{Verb: VerbDo, Option: option} }
func Dont(option byte) Command { return Command{Verb: VerbDont, Option: option} }

// Bytes returns the wire form IAC <verb> <option>.
func (c Command) Bytes() []byte {
	return []byte{IAC, byte(c.Verb), c.Option}
}

func (c Command) String() string {
	return fmt.Sprintf("%s %s", c.Verb, optionName(c.Option))
}

func optionName(opt byte) string {
	switch opt {
	case OptBinary:
		return "BINARY"
	case OptEcho:
		return "ECHO"
	case OptSuppressGoAhead:
		return "SUPPRESS-GO-AHEAD"
	case OptTerminalType:
		return "TERMINAL-TYPE"
	case OptNAWS:
		return "NAWS"
	case OptLinemode:
		return "LINEMODE"
	}
	return fmt.Sprintf("%#02x", opt)
}
