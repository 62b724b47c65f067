package protocol

import "github.com/pkg/errors"

var ErrUnknownAction = errors.New("unknown action kind")

func ValidateRequest(req ActionRequest) error {
	if !req.Kind.Valid() {
		return errors.Wrapf(ErrUnknownAction, "%q", req.Kind)
	}
	seen := map[string]struct{}{}
	for i, p := range req.Params {
		if p.Key == "" {
			return errors.Errorf("%s: params[%d] missing key", req.Kind, i)
		}
		if _, ok := seen[p.Key]; ok {
			return errors.Errorf("%s: duplicate param %q", req.Kind, p.Key)
		}
		seen[p.Key] = struct{}{}
	}
	return nil
}
