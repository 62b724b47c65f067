package tui

const (
	TopicReadvizEvents = "readviz.events"
	TopicUIMessages    = "readviz.ui.msgs"
	TopicUIActions     = "readviz.ui.actions"
)

const (
	DomainTypeUIState        = "ui.state"
	DomainTypeChartDrawn     = "chart.drawn"
	DomainTypeActionLog      = "action.log"
	DomainTypeActionFinished = "action.finished"
)

const (
	UITypeUIState        = "tui.ui.state"
	UITypeChart          = "tui.chart"
	UITypeEventAppend    = "tui.event.append"
	UITypeActionRequest  = "tui.action.request"
	UITypeActionFinished = "tui.action.finished"
)
