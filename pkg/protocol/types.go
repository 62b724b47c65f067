package protocol

import (
	"net/http"

	"github.com/google/uuid"
)

type ActionKind string

const (
	ActionSequence     ActionKind = "sequence"
	ActionPaired       ActionKind = "paired"
	ActionNucleotide   ActionKind = "nucleotide"
	ActionIdentity     ActionKind = "identity"
	ActionCalcIdentity ActionKind = "calc_identity"
	ActionDiamond      ActionKind = "diamond"
	ActionExportTSV    ActionKind = "export_tsv"
)

// Kinds lists every action in menu order.
var Kinds = []ActionKind{
	ActionSequence,
	ActionPaired,
	ActionNucleotide,
	ActionCalcIdentity,
	ActionIdentity,
	ActionDiamond,
	ActionExportTSV,
}

type Endpoint struct {
	Method string
	Path   string
	// Navigate marks endpoints that are opened as a download instead of being called in-page.
	Navigate bool
}

var Endpoints = map[ActionKind]Endpoint{
	ActionSequence:     {Method: http.MethodPost, Path: "/api/sequence"},
	ActionPaired:       {Method: http.MethodPost, Path: "/api/paired"},
	ActionNucleotide:   {Method: http.MethodPost, Path: "/api/nucleotide"},
	ActionCalcIdentity: {Method: http.MethodPost, Path: "/api/calc_identity"},
	ActionIdentity:     {Method: http.MethodPost, Path: "/api/identity"},
	ActionDiamond:      {Method: http.MethodPost, Path: "/api/diamond"},
	ActionExportTSV:    {Method: http.MethodGet, Path: "/api/export_tsv", Navigate: true},
}

func (k ActionKind) Valid() bool {
	_, ok := Endpoints[k]
	return ok
}

func (k ActionKind) Endpoint() (Endpoint, bool) {
	ep, ok := Endpoints[k]
	return ep, ok
}

type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Params keeps request parameters in collection order; the backend and the
// export URL both depend on it.
type Params []Param

func (p Params) Get(key string) (string, bool) {
	for _, it := range p {
		if it.Key == key {
			return it.Value, true
		}
	}
	return "", false
}

func (p Params) Keys() []string {
	out := make([]string, 0, len(p))
	for _, it := range p {
		out = append(out, it.Key)
	}
	return out
}

type ActionRequest struct {
	ID     string     `json:"id"`
	Kind   ActionKind `json:"kind"`
	Params Params     `json:"params,omitempty"`
}

func NewActionRequest(kind ActionKind, params Params) ActionRequest {
	return ActionRequest{
		ID:     uuid.NewString(),
		Kind:   kind,
		Params: params,
	}
}

// XY is a plain column point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slice is one pie segment.
type Slice struct {
	Name string  `json:"name"`
	Y    float64 `json:"y"`
}

// Bubble is one binned nucleotide percentage point.
type Bubble struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Bin   string  `json:"bin"`
}
