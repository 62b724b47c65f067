package chartjs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/go-go-golems/readviz/pkg/chart"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNoRegister = errors.New("chartjs: script did not call register()")
var ErrHookTimeout = errors.New("chartjs: js hook timeout")

// Module is one loaded chart hook script. A goja runtime is single-threaded,
// so every call into it holds mu.
type Module struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	opts   options
	config *goja.Object

	scriptPath string
	name       string

	transformFn goja.Callable
	initFn      goja.Callable
	onErrorFn   goja.Callable

	state *goja.Object
	stats Stats
}

type options struct {
	hookTimeout time.Duration
}

func ParseOptions(opts Options) (options, error) {
	var out options
	if opts.HookTimeout != "" {
		d, err := time.ParseDuration(opts.HookTimeout)
		if err != nil {
			return options{}, errors.Wrap(err, "parse hook timeout")
		}
		out.hookTimeout = d
	}
	return out, nil
}

func LoadFromFile(ctx context.Context, scriptPath string, opts Options) (*Module, error) {
	b, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	return Load(ctx, scriptPath, string(b), opts)
}

// Load compiles src and runs it; the script must call register() exactly once.
func Load(ctx context.Context, scriptPath string, src string, opts Options) (*Module, error) {
	_ = ctx

	parsedOpts, err := ParseOptions(opts)
	if err != nil {
		return nil, err
	}

	m := &Module{
		vm:         goja.New(),
		opts:       parsedOpts,
		scriptPath: scriptPath,
	}
	m.state = m.vm.NewObject()
	m.enableConsole()

	if err := m.vm.Set("register", func(config goja.Value) error {
		if m.config != nil {
			return errors.New("register() called more than once")
		}
		if isNullish(config) {
			return errors.New("register(config) requires a config object")
		}
		m.config = config.ToObject(m.vm)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "set register")
	}

	if _, err := m.vm.RunScript("chartjs:helpers", helpersJS); err != nil {
		return nil, errors.Wrap(err, "load helpers")
	}

	prog, err := goja.Compile(scriptPath, src, false)
	if err != nil {
		return nil, errors.Wrap(err, "compile script")
	}
	if _, err := m.vm.RunProgram(prog); err != nil {
		return nil, errors.Wrap(err, "run script")
	}
	if m.config == nil {
		return nil, ErrNoRegister
	}

	nameVal := m.config.Get("name")
	if isNullish(nameVal) || strings.TrimSpace(nameVal.String()) == "" {
		return nil, errors.New("register({ name: string, ... }): name is required")
	}
	m.name = nameVal.String()

	fn, ok := goja.AssertFunction(m.config.Get("transform"))
	if !ok {
		return nil, errors.New("register({ transform: function(chart, ctx), ... }): transform is required")
	}
	m.transformFn = fn
	if fn, ok := goja.AssertFunction(m.config.Get("init")); ok {
		m.initFn = fn
	}
	if fn, ok := goja.AssertFunction(m.config.Get("onError")); ok {
		m.onErrorFn = fn
	}

	if m.initFn != nil {
		ctxObj := m.buildContext("init", chart.Spec{})
		if _, err := m.callHook(m.initFn, ctxObj); err != nil {
			m.stats.HookErrors++
			m.callOnError("init", err, goja.Undefined(), ctxObj)
		}
	}

	log.Debug().Str("script", scriptPath).Str("name", m.name).Msg("chart hook loaded")
	return m, nil
}

func (m *Module) Name() string { return m.name }

func (m *Module) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Module) Info() ModuleInfo {
	return ModuleInfo{
		Name:         m.name,
		ScriptPath:   m.scriptPath,
		HasInit:      m.initFn != nil,
		HasTransform: m.transformFn != nil,
		HasOnError:   m.onErrorFn != nil,
	}
}

// Transform passes spec through the script's transform hook. A null or
// undefined result keeps spec. On error the original spec is returned along
// with the error. Kind and region cannot be changed by a script.
func (m *Module) Transform(ctx context.Context, spec chart.Spec) (chart.Spec, error) {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.ChartsProcessed++

	in, err := m.toJS(spec)
	if err != nil {
		m.stats.HookErrors++
		return spec, err
	}
	ctxObj := m.buildContext("transform", spec)

	out, err := m.callHook(m.transformFn, in, ctxObj)
	if err != nil {
		m.stats.HookErrors++
		m.callOnError("transform", err, in, ctxObj)
		return spec, errors.Wrapf(err, "%s: transform", m.name)
	}
	if isNullish(out) {
		return spec, nil
	}
	if _, ok := out.(*goja.Object); !ok {
		err := errors.Errorf("%s: transform must return a chart object, got %T", m.name, out.Export())
		m.stats.HookErrors++
		m.callOnError("transform", err, in, ctxObj)
		return spec, err
	}

	next, err := m.fromJS(out)
	if err != nil {
		m.stats.HookErrors++
		m.callOnError("transform", err, out, ctxObj)
		return spec, errors.Wrapf(err, "%s: transform result", m.name)
	}
	next.Kind = spec.Kind
	next.Region = spec.Region
	m.stats.ChartsTransformed++
	return next, nil
}

func (m *Module) toJS(spec chart.Spec) (goja.Value, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return nil, errors.Wrap(err, "marshal chart")
	}
	parse, ok := goja.AssertFunction(m.vm.Get("JSON").ToObject(m.vm).Get("parse"))
	if !ok {
		return nil, errors.New("JSON.parse unavailable")
	}
	return parse(goja.Undefined(), m.vm.ToValue(string(b)))
}

func (m *Module) fromJS(v goja.Value) (chart.Spec, error) {
	stringify, ok := goja.AssertFunction(m.vm.Get("JSON").ToObject(m.vm).Get("stringify"))
	if !ok {
		return chart.Spec{}, errors.New("JSON.stringify unavailable")
	}
	s, err := stringify(goja.Undefined(), v)
	if err != nil {
		return chart.Spec{}, err
	}
	var out chart.Spec
	if err := json.Unmarshal([]byte(s.String()), &out); err != nil {
		return chart.Spec{}, err
	}
	return out, nil
}

func (m *Module) buildContext(hook string, spec chart.Spec) *goja.Object {
	obj := m.vm.NewObject()
	_ = obj.Set("hook", hook)
	_ = obj.Set("kind", string(spec.Kind))
	_ = obj.Set("region", spec.Region)
	_ = obj.Set("state", m.state)
	_ = obj.Set("now", m.newDate(time.Now().UTC()))
	return obj
}

func (m *Module) newDate(t time.Time) goja.Value {
	ctor := m.vm.Get("Date")
	o, err := m.vm.New(ctor, m.vm.ToValue(t.UnixMilli()))
	if err != nil {
		return goja.Undefined()
	}
	return o
}

func (m *Module) callHook(fn goja.Callable, args ...goja.Value) (goja.Value, error) {
	if fn == nil {
		return goja.Undefined(), nil
	}
	if timeout := m.opts.hookTimeout; timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			m.vm.Interrupt(ErrHookTimeout)
		})
		defer timer.Stop()
		defer m.vm.ClearInterrupt()
	}

	v, err := fn(goja.Undefined(), args...)
	if err != nil {
		if isInterruptedByTimeout(err) {
			m.stats.HookTimeouts++
		}
		return nil, err
	}
	return v, nil
}

func (m *Module) callOnError(hook string, err error, payload goja.Value, ctxObj *goja.Object) {
	if m.onErrorFn == nil {
		return
	}
	_ = ctxObj.Set("hook", hook)
	_, _ = m.onErrorFn(goja.Undefined(), m.vm.ToValue(err.Error()), payload, ctxObj)
}

func (m *Module) enableConsole() {
	obj := m.vm.NewObject()
	logAt := func(ev func() *zerolog.Event) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			ev().Str("script", m.scriptPath).Msg(joinArgs(call.Arguments))
			return goja.Undefined()
		}
	}
	_ = obj.Set("log", logAt(log.Info))
	_ = obj.Set("warn", logAt(log.Warn))
	_ = obj.Set("error", logAt(log.Error))
	_ = m.vm.Set("console", obj)
}

func joinArgs(args []goja.Value) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a.Export()))
	}
	return strings.Join(parts, " ")
}

func isNullish(v goja.Value) bool {
	if v == nil {
		return true
	}
	return goja.IsUndefined(v) || goja.IsNull(v)
}

func isInterruptedByTimeout(err error) bool {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if v, ok := interrupted.Value().(error); ok && errors.Is(v, ErrHookTimeout) {
			return true
		}
	}
	return errors.Is(err, ErrHookTimeout)
}
