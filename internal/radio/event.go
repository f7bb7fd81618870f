package radio

import (
	"fmt"

	"github.com/banasraf/telnet-server/internal/broadcast"
	"github.com/banasraf/telnet-server/internal/terminal"
)

type ApplicationEventType int

const (
	EventNone ApplicationEventType = iota
	EventNewUser
	EventMenuChange
	EventChangeChannel
	EventStop
)

func (t ApplicationEventType) String() string {
	switch t {
	case EventNewUser:
		return "new_user"
	case EventMenuChange:
		return "menu_change"
	case EventChangeChannel:
		return "change_channel"
	case EventStop:
		return "stop"
	}
	return "none"
}

type eventTag int

const (
	tagApplication eventTag = iota
	tagUserInput
)

// MenuEvent is either a user key press or an application event. Read the
// payload only through the accessor matching IsUserInput; the others panic.
type MenuEvent struct {
	tag  eventTag
	key  terminal.ActionKey
	kind ApplicationEventType
	sink *broadcast.Sink
}

func UserInput(key terminal.ActionKey) MenuEvent {
	return MenuEvent{tag: tagUserInput, key: key}
}

func AppEvent(kind ApplicationEventType) MenuEvent {
	return MenuEvent{tag: tagApplication, kind: kind}
}

// NewUserEvent asks the event loop to draw the current screen on sink only.
func NewUserEvent(sink *broadcast.Sink) MenuEvent {
	return MenuEvent{tag: tagApplication, kind: EventNewUser, sink: sink}
}

func (e MenuEvent) IsUserInput() bool { return e.tag == tagUserInput }

func (e MenuEvent) Key() terminal.ActionKey {
	if e.tag != tagUserInput {
		panic("radio: Key called on application event " + e.kind.String())
	}
	return e.key
}

func (e MenuEvent) Kind() ApplicationEventType {
	if e.tag != tagApplication {
		panic("radio: Kind called on user input event")
	}
	return e.kind
}

// Sink is the joining session's output for NEW_USER events, nil otherwise.
func (e MenuEvent) Sink() *broadcast.Sink {
	if e.tag != tagApplication {
		panic("radio: Sink called on user input event")
	}
	return e.sink
}

// label is the metrics label for the event.
func (e MenuEvent) label() string {
	if e.tag == tagUserInput {
		return "user_input"
	}
	return e.kind.String()
}

func (e MenuEvent) String() string {
	if e.tag == tagUserInput {
		return fmt.Sprintf("UserInput(%s)", e.key)
	}
	return fmt.Sprintf("ApplicationEvent(%s)", e.kind)
}
