package styles

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconBullet  = "•"
	IconChart   = "▤"
	IconLoading = "◌"
	IconLocked  = "⏸"
)

// ControlsIcon shows whether the action keys are live.
func ControlsIcon(enabled bool) string {
	if enabled {
		return IconSuccess
	}
	return IconLocked
}

func LogLevelIcon(level string) string {
	switch level {
	case "error", "ERROR":
		return IconError
	case "warn", "WARN", "warning", "WARNING":
		return IconWarning
	case "info", "INFO":
		return IconInfo
	default:
		return IconBullet
	}
}
