package dispatch

import (
	"fmt"

	"github.com/go-go-golems/readviz/pkg/protocol"
)

type StatusError struct {
	Kind   protocol.ActionKind
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("action=%q status=%d", e.Kind, e.Status)
	}
	return fmt.Sprintf("action=%q status=%d: %s", e.Kind, e.Status, e.Body)
}
