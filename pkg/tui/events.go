package tui

import (
	"time"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/go-go-golems/readviz/pkg/protocol"
	"github.com/go-go-golems/readviz/pkg/uistate"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type EventLogEntry struct {
	At     time.Time `json:"at"`
	Source string    `json:"source,omitempty"`
	Level  LogLevel  `json:"level,omitempty"`
	Text   string    `json:"text"`
}

// UIStateChanged carries the full UI state after one controller mutation.
type UIStateChanged struct {
	At    time.Time     `json:"at"`
	State uistate.State `json:"state"`
}

type ChartDrawn struct {
	At   time.Time  `json:"at"`
	Spec chart.Spec `json:"spec"`
}

type ActionLog struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

type ActionFinished struct {
	At        time.Time           `json:"at"`
	RequestID string              `json:"request_id"`
	Kind      protocol.ActionKind `json:"kind"`
	Ok        bool                `json:"ok"`
	Code      protocol.ErrorCode  `json:"code,omitempty"`
	Error     string              `json:"error,omitempty"`
	ExportURL string              `json:"export_url,omitempty"`
}
