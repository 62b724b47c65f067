package tui

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewEnvelope(typ string, payload any) (Envelope, error) {
	if typ == "" {
		return Envelope{}, errors.New("empty envelope type")
	}
	if payload == nil {
		return Envelope{Type: typ}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, errors.Wrap(err, "marshal envelope payload")
	}
	return Envelope{Type: typ, Payload: b}, nil
}

func (e Envelope) MarshalJSONBytes() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "marshal envelope")
	}
	return b, nil
}

func publishEnvelope(pub message.Publisher, topic, typ string, payload any) error {
	if pub == nil {
		return errors.New("missing publisher")
	}
	env, err := NewEnvelope(typ, payload)
	if err != nil {
		return err
	}
	b, err := env.MarshalJSONBytes()
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, message.NewMessage(watermill.NewUUID(), b)); err != nil {
		return errors.Wrapf(err, "publish %s", typ)
	}
	return nil
}

func decodePayload[T any](env Envelope) (T, error) {
	var out T
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		return out, errors.Wrapf(err, "unmarshal %s payload", env.Type)
	}
	return out, nil
}
