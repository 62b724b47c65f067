package uistate

import (
	"sort"
	"sync"
)

// State is the page-wide UI state. Methods return an updated copy and leave
// the receiver untouched.
type State struct {
	ControlsEnabled bool              `json:"controls_enabled"`
	Errors          map[Region]string `json:"errors,omitempty"`
	Status          map[Region]string `json:"status,omitempty"`
	Loading         map[Region]bool   `json:"loading,omitempty"`
}

func New() State {
	return State{ControlsEnabled: true}
}

func (s State) clone() State {
	out := State{ControlsEnabled: s.ControlsEnabled}
	out.Errors = copyMap(s.Errors)
	out.Status = copyMap(s.Status)
	if len(s.Loading) > 0 {
		out.Loading = make(map[Region]bool, len(s.Loading))
		for k, v := range s.Loading {
			out.Loading[k] = v
		}
	}
	return out
}

func copyMap(m map[Region]string) map[Region]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[Region]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// BeginAction clears every error region, then disables controls.
func (s State) BeginAction() State {
	out := s.clone()
	out.Errors = nil
	out.ControlsEnabled = false
	return out
}

func (s State) EndActionSuccess() State {
	return s.ReleaseControls()
}

// EndActionFailure overwrites region with message. Controls stay as they are.
func (s State) EndActionFailure(region Region, message string) State {
	out := s.clone()
	if out.Errors == nil {
		out.Errors = map[Region]string{}
	}
	out.Errors[region] = message
	return out
}

func (s State) ReleaseControls() State {
	out := s.clone()
	out.ControlsEnabled = true
	return out
}

func (s State) WriteStatus(region Region, message string) State {
	out := s.clone()
	if out.Status == nil {
		out.Status = map[Region]string{}
	}
	out.Status[region] = message
	return out
}

func (s State) SetLoading(region Region, loading bool) State {
	out := s.clone()
	if !loading {
		delete(out.Loading, region)
		return out
	}
	if out.Loading == nil {
		out.Loading = map[Region]bool{}
	}
	out.Loading[region] = true
	return out
}

func (s State) Error(region Region) string {
	return s.Errors[region]
}

// ErrorRegions returns the regions currently holding text, sorted.
func (s State) ErrorRegions() []Region {
	out := make([]Region, 0, len(s.Errors))
	for r, text := range s.Errors {
		if text != "" {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Controller holds a State behind a mutex so the engine can drive it from any
// goroutine.
type Controller struct {
	mu    sync.Mutex
	state State
}

func NewController() *Controller {
	return &Controller{state: New()}
}

func (c *Controller) apply(fn func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) BeginAction() { c.apply(State.BeginAction) }

func (c *Controller) EndActionSuccess() { c.apply(State.EndActionSuccess) }

func (c *Controller) ReleaseControls() { c.apply(State.ReleaseControls) }

func (c *Controller) EndActionFailure(region Region, message string) {
	c.apply(func(s State) State { return s.EndActionFailure(region, message) })
}

func (c *Controller) WriteStatus(region Region, message string) {
	c.apply(func(s State) State { return s.WriteStatus(region, message) })
}

func (c *Controller) SetLoading(region Region, loading bool) {
	c.apply(func(s State) State { return s.SetLoading(region, loading) })
}
