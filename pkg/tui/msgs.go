package tui

import (
	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/uistate"
)

type UIStateMsg struct {
	State uistate.State
}

type ChartMsg struct {
	Spec chart.Spec
}

type EventLogAppendMsg struct {
	Entry EventLogEntry
}

type ActionFinishedMsg struct {
	Event ActionFinished
}

// ActionPublishFailedMsg reports that a key press could not be turned into a
// bus message.
type ActionPublishFailedMsg struct {
	Err error
}
