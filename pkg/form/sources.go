package form

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// MapSource is a snapshot of control values keyed by control id.
type MapSource map[string]string

func (m MapSource) Value(control string) (string, bool) {
	v, ok := m[control]
	return v, ok
}

func (m MapSource) Checked(control string) (bool, bool) {
	v, ok := m[control]
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, true
	}
	return b, true
}

// Defaults returns a MapSource holding every control's default value,
// overridden by overrides.
func Defaults(overrides map[string]string) MapSource {
	out := MapSource{}
	for _, f := range Controls() {
		out[f.Control] = f.Default
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// FlagSource reads controls from command line flags registered by AddFlags.
type FlagSource struct {
	fs     *pflag.FlagSet
	byCtrl map[string]string
}

func NewFlagSource(fs *pflag.FlagSet) *FlagSource {
	byCtrl := map[string]string{}
	for _, f := range Controls() {
		byCtrl[f.Control] = f.Flag
	}
	return &FlagSource{fs: fs, byCtrl: byCtrl}
}

func (s *FlagSource) lookup(control string) *pflag.Flag {
	name, ok := s.byCtrl[control]
	if !ok || s.fs == nil {
		return nil
	}
	return s.fs.Lookup(name)
}

func (s *FlagSource) Value(control string) (string, bool) {
	f := s.lookup(control)
	if f == nil {
		return "", false
	}
	return f.Value.String(), true
}

func (s *FlagSource) Checked(control string) (bool, bool) {
	f := s.lookup(control)
	if f == nil {
		return false, false
	}
	b, err := strconv.ParseBool(f.Value.String())
	if err != nil {
		return false, true
	}
	return b, true
}

// AddFlags registers one flag per control of fields. defaults overrides the
// built-in default by control id.
func AddFlags(fs *pflag.FlagSet, fields []Field, defaults map[string]string) {
	for _, f := range fields {
		if fs.Lookup(f.Flag) != nil {
			continue
		}
		def := f.Default
		if v, ok := defaults[f.Control]; ok {
			def = v
		}
		if f.IsCheckbox() {
			b, _ := strconv.ParseBool(def)
			fs.Bool(f.Flag, b, f.Help)
			continue
		}
		fs.String(f.Flag, def, f.Help)
	}
}
