package tui

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/pkg/errors"
)

type ActionEnvelope struct {
	Request protocol.ActionRequest `json:"request"`
	At      time.Time              `json:"at"`
}

func PublishAction(pub message.Publisher, req protocol.ActionRequest) error {
	if req.Kind == "" {
		return errors.New("missing action kind")
	}
	if !req.Kind.Valid() {
		return errors.Wrapf(protocol.ErrUnknownAction, "%q", req.Kind)
	}
	return publishEnvelope(pub, TopicUIActions, UITypeActionRequest, ActionEnvelope{Request: req, At: time.Now()})
}
