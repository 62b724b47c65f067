package chartjs

import (
	"context"
	"strings"

	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Chain runs modules in order, each seeing the previous module's output.
type Chain struct {
	Modules []*Module
}

type Script struct {
	Path string
	Opts Options
}

func LoadChain(ctx context.Context, scripts []Script) (*Chain, error) {
	out := &Chain{Modules: make([]*Module, 0, len(scripts))}
	for _, s := range scripts {
		if strings.TrimSpace(s.Path) == "" {
			continue
		}
		m, err := LoadFromFile(ctx, s.Path, s.Opts)
		if err != nil {
			return nil, errors.Wrapf(err, "load chart hook %s", s.Path)
		}
		info := m.Info()
		log.Debug().
			Str("hook", info.Name).
			Str("path", info.ScriptPath).
			Bool("init", info.HasInit).
			Bool("on_error", info.HasOnError).
			Msg("chart hook loaded")
		out.Modules = append(out.Modules, m)
	}
	return out, nil
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Modules)
}

// Transform applies every module. A failing module is skipped and its error
// reported once the remaining modules ran.
func (c *Chain) Transform(ctx context.Context, spec chart.Spec) (chart.Spec, error) {
	var firstErr error
	for _, m := range c.Modules {
		next, err := m.Transform(ctx, spec)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		spec = next
	}
	return spec, firstErr
}

func (c *Chain) Stats() Stats {
	var out Stats
	for _, m := range c.Modules {
		s := m.Stats()
		out.ChartsProcessed += s.ChartsProcessed
		out.ChartsTransformed += s.ChartsTransformed
		out.HookErrors += s.HookErrors
		out.HookTimeouts += s.HookTimeouts
	}
	return out
}
