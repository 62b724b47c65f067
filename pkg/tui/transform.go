package tui

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
)

func RegisterDomainToUITransformer(bus *Bus) {
	bus.AddHandler("readviz-domain-to-ui", TopicReadvizEvents, func(msg *message.Message) error {
		defer msg.Ack()

		var env Envelope
		if err := json.Unmarshal(msg.Payload, &env); err != nil {
			return errors.Wrap(err, "unmarshal domain envelope")
		}

		publishUI := func(uiType string, payload any) error {
			return publishEnvelope(bus.Publisher, TopicUIMessages, uiType, payload)
		}
		publishEvent := func(entry EventLogEntry) error {
			return publishUI(UITypeEventAppend, entry)
		}

		switch env.Type {
		case DomainTypeUIState:
			ev, err := decodePayload[UIStateChanged](env)
			if err != nil {
				return err
			}
			return publishUI(UITypeUIState, ev)
		case DomainTypeChartDrawn:
			ev, err := decodePayload[ChartDrawn](env)
			if err != nil {
				return err
			}
			if err := publishUI(UITypeChart, ev); err != nil {
				return err
			}
			text := fmt.Sprintf("chart: %s (%d points)", ev.Spec.Region, ev.Spec.PointCount())
			return publishEvent(EventLogEntry{At: ev.At, Source: "chart", Level: LogLevelDebug, Text: text})
		case DomainTypeActionLog:
			ev, err := decodePayload[ActionLog](env)
			if err != nil {
				return err
			}
			return publishEvent(EventLogEntry{At: ev.At, Source: "system", Level: LogLevelInfo, Text: ev.Text})
		case DomainTypeActionFinished:
			ev, err := decodePayload[ActionFinished](env)
			if err != nil {
				return err
			}
			if err := publishUI(UITypeActionFinished, ev); err != nil {
				return err
			}
			level, text := describeFinished(ev)
			return publishEvent(EventLogEntry{At: ev.At, Source: string(ev.Kind), Level: level, Text: text})
		default:
			return nil
		}
	})
}
