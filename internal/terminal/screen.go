package terminal

// ANSI control sequences understood by any VT100-compatible client.
const (
	ClearScreen = "\x1b[2J\x1b[H"
	ClearLine   = "\x1b[K"
	HideCursor  = "\x1b[?25l"
	ShowCursor  = "\x1b[?25h"
	Reverse     = "\x1b[7m"
	Bold        = "\x1b[1m"
	Reset       = "\x1b[0m"
	NewLine     = "\r\n"
)
