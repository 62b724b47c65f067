package tui

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// Sender is the part of *tea.Program the forwarder needs.
type Sender interface {
	Send(msg tea.Msg)
}

func RegisterUIForwarder(bus *Bus, p Sender) {
	bus.AddHandler("readviz-ui-forward", TopicUIMessages, func(msg *message.Message) error {
		defer msg.Ack()

		var env Envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			return errors.Wrap(err, "unmarshal ui envelope")
		}

		switch env.Type {
		case UITypeUIState:
			ev, err := decodePayload[UIStateChanged](env)
			if err != nil {
				return err
			}
			p.Send(UIStateMsg{State: ev.State})
		case UITypeChart:
			ev, err := decodePayload[ChartDrawn](env)
			if err != nil {
				return err
			}
			p.Send(ChartMsg{Spec: ev.Spec})
		case UITypeEventAppend:
			entry, err := decodePayload[EventLogEntry](env)
			if err != nil {
				return err
			}
			p.Send(EventLogAppendMsg{Entry: entry})
		case UITypeActionFinished:
			ev, err := decodePayload[ActionFinished](env)
			if err != nil {
				return err
			}
			p.Send(ActionFinishedMsg{Event: ev})
		}
		return nil
	})
}
