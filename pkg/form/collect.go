package form

import (
	"github.com/go-go-golems/readviz/pkg/protocol"
)

// Source reads the current value of a named control. ok is false when the
// control does not exist.
type Source interface {
	Value(control string) (value string, ok bool)
	Checked(control string) (checked bool, ok bool)
}

// Collect reads kind's controls from src. Values are passed through as-is: a
// missing text control yields "" and a missing checkbox reads as unchecked.
func Collect(kind protocol.ActionKind, src Source) protocol.Params {
	fields := fieldsByKind[kind]
	out := make(protocol.Params, 0, len(fields))
	for _, f := range fields {
		out = append(out, protocol.Param{Key: f.Key, Value: read(src, f)})
	}
	return out
}

func read(src Source, f Field) string {
	if src == nil {
		if f.IsCheckbox() {
			return "false"
		}
		return ""
	}
	if f.IsCheckbox() {
		checked, _ := src.Checked(f.Control)
		if checked {
			return "true"
		}
		return "false"
	}
	v, _ := src.Value(f.Control)
	return v
}
