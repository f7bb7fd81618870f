package radio

import (
	"context"
	"log/slog"
	"time"

	"github.com/banasraf/telnet-server/internal/broadcast"
	"github.com/banasraf/telnet-server/internal/events"
	"github.com/banasraf/telnet-server/internal/guarded"
	"github.com/banasraf/telnet-server/internal/menu"
)

// EventLoop is the single consumer of the event queue and the only writer of
// the menu state.
type EventLoop struct {
	menu    *guarded.Value[menu.Menu]
	options *guarded.Value[menu.OptionsListing]
	output  *broadcast.MultiWriter
	events  *events.Queue[MenuEvent]
	logger  *slog.Logger
	doneCh  chan struct{}
}

func NewEventLoop(
	m *guarded.Value[menu.Menu],
	options *guarded.Value[menu.OptionsListing],
	output *broadcast.MultiWriter,
	queue *events.Queue[MenuEvent],
	logger *slog.Logger,
) *EventLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLoop{
		menu:    m,
		options: options,
		output:  output,
		events:  queue,
		logger:  logger,
		doneCh:  make(chan struct{}),
	}
}

// Wait blocks until Run has returned.
func (l *EventLoop) Wait() {
	<-l.doneCh
}

// Run processes events in queue order until it handles a STOP event or ctx
// ends. Events queued behind STOP are left unprocessed.
func (l *EventLoop) Run(ctx context.Context) error {
	defer close(l.doneCh)

	for {
		ev, err := l.events.Next(ctx)
		if err != nil {
			return err
		}

		start := time.Now()
		stop := l.handle(ev)

		EventsTotal.WithLabelValues(ev.label()).Inc()
		EventProcessingDuration.WithLabelValues(ev.label()).Observe(time.Since(start).Seconds())

		if stop {
			l.logger.Info("event loop stopped")
			return nil
		}
	}
}

func (l *EventLoop) handle(ev MenuEvent) (stop bool) {
	if ev.IsUserInput() {
		l.handleKey(ev)
		return false
	}

	switch ev.Kind() {
	case EventNewUser:
		l.handleNewUser(ev)
	case EventMenuChange:
		l.menu.Do(func(m *menu.Menu) { m.ApplyMenuChange() })
		l.broadcastRender()
	case EventChangeChannel:
		var changed bool
		l.options.Do(func(o *menu.OptionsListing) { changed = o.ApplyChange() })
		if changed {
			l.logChannel()
		}
		l.broadcastRender()
	case EventStop:
		return true
	case EventNone:
	}
	return false
}

func (l *EventLoop) handleKey(ev MenuEvent) {
	var action menu.Action
	l.menu.Do(func(m *menu.Menu) {
		l.options.Do(func(o *menu.OptionsListing) {
			action = m.HandleKey(ev.Key(), o)
		})
	})

	switch action {
	case menu.ActionRedraw:
		l.broadcastRender()
	case menu.ActionMenuChange:
		l.events.Push(AppEvent(EventMenuChange))
	case menu.ActionChangeChannel:
		l.events.Push(AppEvent(EventChangeChannel))
	}
}

func (l *EventLoop) handleNewUser(ev MenuEvent) {
	sink := ev.Sink()
	if sink == nil {
		return
	}
	if err := broadcast.Send(sink, l.render()); err != nil {
		// The session notices its own broken connection and tears down.
		l.logger.Debug("initial render failed", "error", err)
	}
}

func (l *EventLoop) broadcastRender() {
	_, _ = l.output.Write(l.render())
}

// render takes the menu scope, then the options scope. Every path that holds
// both acquires them in this order.
func (l *EventLoop) render() []byte {
	view := menu.View{Listeners: l.output.Len()}
	var out []byte
	l.menu.Do(func(m *menu.Menu) {
		l.options.Do(func(o *menu.OptionsListing) {
			out = menu.Render(m, o, view)
		})
	})
	return out
}

func (l *EventLoop) logChannel() {
	l.options.Do(func(o *menu.OptionsListing) {
		if s, ok := o.Playing(); ok {
			l.logger.Info("channel changed", "station", s.Name, "url", s.URL)
		} else {
			l.logger.Info("playback stopped")
		}
	})
}
