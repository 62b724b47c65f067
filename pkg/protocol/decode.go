package protocol

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// maxUnwrap bounds how many times a body that is itself a JSON string gets
// decoded again. The identity endpoint wraps its table JSON in a string.
const maxUnwrap = 2

var ErrEmptyBody = errors.New("empty response body")

// Decode turns a raw 2xx body into the payload type of kind.
func Decode(kind ActionKind, body []byte) (Payload, error) {
	switch kind {
	case ActionDiamond:
		return DiamondPayload{Body: string(body)}, nil
	case ActionCalcIdentity:
		s := string(bytes.TrimSpace(body))
		if b, err := unwrap([]byte(s)); err == nil {
			s = strings.TrimSpace(string(b))
		}
		return CalcIdentityPayload{Calculated: s == "True", Raw: s}, nil
	case ActionExportTSV:
		return nil, errors.Errorf("%s responses are downloads, not payloads", kind)
	}

	b, err := unwrap(body)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", kind)
	}

	switch kind {
	case ActionSequence:
		var p SequencePayload
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, errors.Wrap(err, "decode sequence payload")
		}
		return p, nil
	case ActionPaired:
		var slices []Slice
		if err := json.Unmarshal(b, &slices); err != nil {
			return nil, errors.Wrap(err, "decode paired payload")
		}
		return PairedPayload{Slices: slices}, nil
	case ActionNucleotide:
		var p NucleotidePayload
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, errors.Wrap(err, "decode nucleotide payload")
		}
		return p, nil
	case ActionIdentity:
		points, err := decodeIdentity(b)
		if err != nil {
			return nil, errors.Wrap(err, "decode identity payload")
		}
		return IdentityPayload{Points: points}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownAction, "%q", kind)
	}
}

// unwrap strips up to maxUnwrap layers of JSON string encoding.
func unwrap(body []byte) ([]byte, error) {
	b := bytes.TrimSpace(body)
	if len(b) == 0 {
		return nil, ErrEmptyBody
	}
	for i := 0; i < maxUnwrap && len(b) > 0 && b[0] == '"'; i++ {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		b = bytes.TrimSpace([]byte(s))
	}
	if len(b) == 0 {
		return nil, ErrEmptyBody
	}
	return b, nil
}

// identityRow is one row of a pandas "table" orient export.
type identityRow struct {
	Perc     float64 `json:"perc"`
	Identity float64 `json:"identity"`
}

func decodeIdentity(b []byte) ([]XY, error) {
	if b[0] == '[' {
		var points []XY
		if err := json.Unmarshal(b, &points); err != nil {
			return nil, err
		}
		return points, nil
	}

	var table struct {
		Data []identityRow `json:"data"`
	}
	if err := json.Unmarshal(b, &table); err != nil {
		return nil, err
	}
	points := make([]XY, 0, len(table.Data))
	for _, row := range table.Data {
		points = append(points, XY{X: row.Perc, Y: row.Identity})
	}
	return points, nil
}
