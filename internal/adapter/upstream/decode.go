package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedShape means the backend answered with a shape none of the
// known envelopes match. Decoding fails loudly instead of defaulting to
// empty.
var ErrUnexpectedShape = errors.New("unexpected upstream response shape")

// decodeList normalizes the backend's list envelopes: a bare array,
// {"results": [...]} or {"items": [...]}. Anything else is an error.
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedShape)
	}
	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return out, nil
	}
	var env struct {
		Results json.RawMessage `json:"results"`
		Items   json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	var inner json.RawMessage
	switch {
	case env.Results != nil:
		inner = env.Results
	case env.Items != nil:
		inner = env.Items
	default:
		return nil, fmt.Errorf("%w: no results or items key", ErrUnexpectedShape)
	}
	var out []T
	if err := json.Unmarshal(inner, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return out, nil
}
