package telnet

// CommandHandler decides what a Stream sends during option negotiation.
type CommandHandler interface {
	// Init returns the commands sent as soon as the session starts.
	Init() []Command
	// Response returns the replies to an incoming command, possibly none.
	Response(cmd Command) []Command
}

// InteractiveHandler claims ECHO and asks for LINEMODE, then refuses every
// other option the peer offers or requests. It never renegotiates.
type InteractiveHandler struct{}

func (InteractiveHandler) Init() []Command {
	return []Command{Will(OptEcho), Do(OptLinemode)}
}

// Response refuses any option other than the claimed ones. A claimed option
// asked for with the other polarity (WILL ECHO, DO LINEMODE) is refused too.
func (InteractiveHandler) Response(cmd Command) []Command {
	switch {
	case cmd.Verb == VerbDont && cmd.Option != OptEcho:
		return []Command{Wont(cmd.Option)}
	case cmd.Verb == VerbDo && cmd.Option != OptEcho:
		return []Command{Wont(cmd.Option)}
	case cmd.Verb == VerbWont && cmd.Option != OptLinemode:
		return []Command{Dont(cmd.Option)}
	case cmd.Verb == VerbWill && cmd.Option != OptLinemode:
		return []Command{Dont(cmd.Option)}
	}
	return nil
}
