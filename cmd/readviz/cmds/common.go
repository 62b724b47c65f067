package cmds

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-go-golems/readviz/pkg/chartjs"
	"github.com/go-go-golems/readviz/pkg/config"
	"github.com/go-go-golems/readviz/pkg/dispatch"
	"github.com/go-go-golems/readviz/pkg/engine"
	"github.com/go-go-golems/readviz/pkg/form"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	Config            *config.File
	BaseURL           string
	Timeout           time.Duration
	Hooks             []chartjs.Script
	ReenableOnFailure bool
}

func AddRootFlags(root *cobra.Command) {
	addRootFlags(root)
}

func addRootFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Path to config file (defaults to .readviz.yaml in the current directory)")
	root.PersistentFlags().String("base-url", "", "Analysis backend base URL (default "+dispatch.DefaultBaseURL+")")
	root.PersistentFlags().Duration("timeout", 0, "Per-request timeout; 0 waits indefinitely")
	root.PersistentFlags().StringArray("hook", nil, "Chart hook script (repeatable, runs after config hooks)")
	root.PersistentFlags().Bool("reenable-on-failure", false, "Re-enable controls after every failed action")
}

func getRootOptions(cmd *cobra.Command) (rootOptions, error) {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return rootOptions{}, err
	}
	var cfg *config.File
	if cfgPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return rootOptions{}, err
		}
		cfg, err = config.LoadOptional(config.DefaultPath(cwd))
		if err != nil {
			return rootOptions{}, err
		}
	} else {
		abs, err := filepath.Abs(cfgPath)
		if err != nil {
			return rootOptions{}, err
		}
		cfg, err = config.LoadFromFile(abs)
		if err != nil {
			return rootOptions{}, err
		}
	}

	opts := rootOptions{Config: cfg, BaseURL: cfg.BaseURL, ReenableOnFailure: cfg.ReenableOnFailure}

	if flags.Changed("base-url") {
		if opts.BaseURL, err = flags.GetString("base-url"); err != nil {
			return rootOptions{}, err
		}
	}

	if opts.Timeout, err = cfg.RequestTimeout(); err != nil {
		return rootOptions{}, err
	}
	if flags.Changed("timeout") {
		if opts.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return rootOptions{}, err
		}
		if opts.Timeout < 0 {
			return rootOptions{}, errors.New("timeout must be >= 0")
		}
	}

	if flags.Changed("reenable-on-failure") {
		if opts.ReenableOnFailure, err = flags.GetBool("reenable-on-failure"); err != nil {
			return rootOptions{}, err
		}
	}

	for _, h := range cfg.Hooks {
		opts.Hooks = append(opts.Hooks, chartjs.Script{Path: h.Path, Opts: chartjs.Options{HookTimeout: h.Timeout}})
	}
	extra, err := flags.GetStringArray("hook")
	if err != nil {
		return rootOptions{}, err
	}
	for _, p := range extra {
		opts.Hooks = append(opts.Hooks, chartjs.Script{Path: p})
	}

	return opts, nil
}

// newEngine builds an engine without UI or renderer; callers fill those in.
func newEngine(ctx context.Context, opts rootOptions) (engine.Engine, error) {
	client, err := dispatch.New(dispatch.Options{BaseURL: opts.BaseURL, Timeout: opts.Timeout})
	if err != nil {
		return engine.Engine{}, err
	}
	e := engine.Engine{
		Client: client,
		Policy: engine.Policy{ReenableOnFailure: opts.ReenableOnFailure},
	}
	if len(opts.Hooks) > 0 {
		chain, err := chartjs.LoadChain(ctx, opts.Hooks)
		if err != nil {
			return engine.Engine{}, err
		}
		log.Debug().Int("hooks", chain.Len()).Msg("chart hooks loaded")
		e.Hooks = chain
	}
	return e, nil
}

// flagSource reads a control from its flag when set on the command line,
// otherwise from the config file's form section, otherwise from the flag
// default.
type flagSource struct {
	flags    *form.FlagSource
	fs       *pflag.FlagSet
	byCtrl   map[string]string
	fallback form.MapSource
}

var _ form.Source = (*flagSource)(nil)

func newFlagSource(fs *pflag.FlagSet, overrides map[string]string) *flagSource {
	byCtrl := map[string]string{}
	for _, f := range form.Controls() {
		byCtrl[f.Control] = f.Flag
	}
	return &flagSource{
		flags:    form.NewFlagSource(fs),
		fs:       fs,
		byCtrl:   byCtrl,
		fallback: form.MapSource(overrides),
	}
}

func (s *flagSource) useFlag(control string) bool {
	if _, ok := s.fallback[control]; !ok {
		return true
	}
	name, ok := s.byCtrl[control]
	return ok && s.fs.Changed(name)
}

func (s *flagSource) Value(control string) (string, bool) {
	if s.useFlag(control) {
		return s.flags.Value(control)
	}
	return s.fallback.Value(control)
}

func (s *flagSource) Checked(control string) (bool, bool) {
	if s.useFlag(control) {
		return s.flags.Checked(control)
	}
	return s.fallback.Checked(control)
}

// logHookStats reports what the chart hooks did during the command.
func logHookStats(e engine.Engine) {
	chain, ok := e.Hooks.(*chartjs.Chain)
	if !ok || chain.Len() == 0 {
		return
	}
	st := chain.Stats()
	log.Debug().
		Int64("processed", st.ChartsProcessed).
		Int64("transformed", st.ChartsTransformed).
		Int64("errors", st.HookErrors).
		Int64("timeouts", st.HookTimeouts).
		Msg("chart hook stats")
}
